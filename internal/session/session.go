package session

import (
	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/identify"
	"github.com/vrazzer/LED-control/internal/protocol"
	"github.com/vrazzer/LED-control/internal/state"
)

// Session is the per-connection protocol state. It is owned by the Manager
// loop and is not safe for concurrent use.
type Session struct {
	Address  string
	Kind     string
	Current  state.Record
	Previous state.Record
	Query    state.Reassembler
}

// New returns an empty session for address.
func New(address string) *Session {
	return &Session{Address: address}
}

// Reset clears everything learned on the previous connection.
func (s *Session) Reset() {
	s.Kind = ""
	s.Current.Reset()
	s.Previous.Reset()
	s.Query.Reset()
}

// Identified reports whether the device kind is known.
func (s *Session) Identified() bool {
	return s.Kind != ""
}

// CanSend reports whether a user command may be dispatched now.
func (s *Session) CanSend() bool {
	return s.Identified() && s.Query.Idle()
}

// Baseline returns the state guarded commands are compared with.
func (s *Session) Baseline() command.Baseline {
	return command.Baseline{
		Queried: s.Query.Completed() > 0,
		Level:   s.Current.Level(),
	}
}

// NeedsNotify reports whether notifications must be enabled before a query.
func (s *Session) NeedsNotify() bool {
	return s.Current.IsEmpty()
}

// HandleIdentify matches a discovery response. It returns the kind when this
// response identified the device.
func (s *Session) HandleIdentify(value []byte) (string, bool) {
	kind, ok := identify.Match(value)
	if !ok {
		return "", false
	}
	s.Kind = kind
	return kind, true
}

// HandleSegment feeds one notification segment to the reassembler. When the
// record completes it returns the report against the previous snapshot and
// advances the snapshot.
func (s *Session) HandleSegment(seg *protocol.Segment) (state.SegmentResult, *state.Report) {
	result := s.Query.OnSegment(&s.Current, seg.Index, seg.Payload)
	if result != state.SegmentComplete {
		return result, nil
	}

	if s.Query.Completed() == 1 {
		s.Previous = s.Current
	}
	report := state.Compare(&s.Previous, &s.Current)
	report.Query = s.Query.Completed()
	s.Previous = s.Current
	return result, &report
}
