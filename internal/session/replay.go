package session

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/protocol"
	"github.com/vrazzer/LED-control/internal/state"
)

// ReplayStats counts what a replay saw.
type ReplayStats struct {
	Lines    int
	Received int
	Sent     int
	Segments int
	Dropped  int
	Reports  int
	Invalid  int
}

// packetField is the structured part of a logged packet line.
type packetField struct {
	Direction string `json:"direction"`
	Hex       string `json:"hex"`
}

// Replay decodes a packet capture and reports the device state it carried,
// as a live session would. Each line is either a logged "Packet" entry or
// a hex dump of one received packet, optionally prefixed with "recv" or
// "send". Blank lines and lines starting with '#' are skipped.
func Replay(r io.Reader, address string, obs ...Observer) (ReplayStats, error) {
	var stats ReplayStats
	sess := New(address)
	events := observers(obs)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		direction, data, err := parseCaptureLine(line)
		if err != nil {
			stats.Invalid++
			logging.Debug("Skipping capture line", zap.Int("line", stats.Lines), zap.Error(err))
			continue
		}
		if direction == "send" {
			stats.Sent++
			continue
		}
		stats.Received++

		if !sess.Identified() {
			if value, err := protocol.ParseReadByTypeValue(data); err == nil {
				if kind, ok := sess.HandleIdentify(value); ok {
					events.Identified(address, kind)
				}
				continue
			}
		}

		seg, err := protocol.ParseStateSegment(data)
		if errors.Is(err, protocol.ErrNotSegment) {
			continue
		}
		if err != nil {
			stats.Dropped++
			events.Segment(state.SegmentDropped)
			continue
		}

		stats.Segments++
		result, report := sess.HandleSegment(seg)
		events.Segment(result)
		if result == state.SegmentDropped {
			stats.Dropped++
		}
		if report != nil {
			stats.Reports++
			events.Reported(address, sess.Kind, report)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("session: read capture: %w", err)
	}
	return stats, nil
}

// parseCaptureLine returns the direction ("recv" unless stated) and the
// packet bytes of one capture line.
func parseCaptureLine(line string) (string, []byte, error) {
	if i := strings.IndexByte(line, '{'); i >= 0 {
		var field packetField
		if err := json.Unmarshal([]byte(line[i:]), &field); err != nil {
			return "", nil, err
		}
		if field.Hex == "" || strings.HasSuffix(field.Hex, "...") {
			return "", nil, fmt.Errorf("no complete packet in log entry")
		}
		data, err := hex.DecodeString(field.Hex)
		return strings.ToLower(field.Direction), data, err
	}

	direction := "recv"
	for _, prefix := range []string{"recv", "send"} {
		if strings.HasPrefix(strings.ToLower(line), prefix) {
			direction = prefix
			line = line[len(prefix):]
			break
		}
	}
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == ':' || r == '\t' {
			return -1
		}
		return r
	}, line)
	if compact == "" {
		return "", nil, fmt.Errorf("empty packet")
	}
	data, err := hex.DecodeString(compact)
	return direction, data, err
}
