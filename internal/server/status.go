package server

import (
	"time"

	"github.com/vrazzer/LED-control/internal/state"
)

// Status is the snapshot served on /status and pushed on /ws.
type Status struct {
	Address   string            `json:"address"`
	Connected bool              `json:"connected"`
	Kind      string            `json:"kind,omitempty"`
	Query     int               `json:"query"`
	Firmware  string            `json:"firmware,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Changes   []string          `json:"changes,omitempty"`
	Updated   time.Time         `json:"updated"`
}

// Event is one WebSocket message.
type Event struct {
	Type   string `json:"type"`
	Status Status `json:"status"`
}

// Event types
const (
	EventSnapshot     = "snapshot"
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
	EventIdentified   = "identified"
	EventReport       = "report"
)

// applyReport copies a completed query into s.
func (s *Status) applyReport(report *state.Report) {
	s.Query = report.Query
	s.Firmware = report.Firmware
	s.Fields = report.Values()
	s.Changes = make([]string, 0, len(report.Changes))
	for _, c := range report.Changes {
		s.Changes = append(s.Changes, c.String())
	}
}
