package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/protocol"
	"github.com/vrazzer/LED-control/internal/state"
	"github.com/vrazzer/LED-control/internal/transport"
)

var (
	patternSP630E1 = []byte{0x00, 0x00, 0x0f, 0x00, 0x01, 0x00, 0x15, 0x00, 0x00, 0x00}
	patternUnknown = []byte{0x00, 0x00, 0x0f, 0x00, 0x07, 0x00, 0x15, 0x00, 0x00, 0x00}
)

// identifyResponse wraps value in a Read By Type response.
func identifyResponse(value []byte) []byte {
	return append([]byte{protocol.OpReadByTypeResponse, byte(len(value) + 2), 0x0f, 0x00}, value...)
}

// notification wraps payload in a state segment.
func notification(index byte, payload []byte) []byte {
	frame := []byte{protocol.OpHandleValueNotification, 0x0e, 0x00, protocol.PacketMarker,
		protocol.OpcodeQuery, 0x00, 0x01, index, byte(len(payload))}
	return append(frame, payload...)
}

// testRecord returns a record with firmware and level set and no remotes.
func testRecord(level byte) []byte {
	data := make([]byte, state.Capacity)
	copy(data[state.OffsetFirmware:], "V3.0.08")
	data[state.OffsetPower] = 1
	data[state.OffsetLevel] = level
	return data
}

// fakeLink is a scripted device. It answers the identify probe with
// fingerprint, every device request with a write acknowledgement and every
// query with record split into segments.
type fakeLink struct {
	fingerprint []byte
	record      []byte
	segmentSize int
	silent      bool // never answer queries
	failAfter   int  // fail Read after this many packets; 0 disables

	inbound [][]byte
	writes  [][]byte
	reads   int
	closed  bool
}

func (f *fakeLink) Read(p []byte) (int, error) {
	if f.closed {
		return 0, transport.ErrClosed
	}
	if f.failAfter > 0 && f.reads >= f.failAfter {
		return 0, io.EOF
	}
	if len(f.inbound) == 0 {
		return 0, errors.New("fake: read with nothing pending")
	}
	pkt := f.inbound[0]
	f.inbound = f.inbound[1:]
	f.reads++
	return copy(p, pkt), nil
}

func (f *fakeLink) Write(p []byte) (int, error) {
	if f.closed {
		return 0, transport.ErrClosed
	}
	frame := append([]byte(nil), p...)
	f.writes = append(f.writes, frame)

	if bytes.Equal(frame, protocol.BuildIdentifyRequest()) {
		if f.fingerprint != nil {
			f.inbound = append(f.inbound, identifyResponse(f.fingerprint))
		}
		return len(p), nil
	}

	f.inbound = append(f.inbound, []byte{protocol.OpWriteResponse})
	if op, ok := protocol.RequestOpcode(frame); ok && op == protocol.OpcodeQuery && !f.silent {
		size := f.segmentSize
		if size == 0 {
			size = 20
		}
		total := state.MeaningfulLen(int(f.record[state.OffsetRemoteCount]))
		for i, off := 0, 0; off < total; i, off = i+1, off+size {
			end := off + size
			if end > total {
				end = total
			}
			f.inbound = append(f.inbound, notification(byte(i), f.record[off:end]))
		}
	}
	return len(p), nil
}

func (f *fakeLink) Close() error {
	f.closed = true
	return nil
}

func (f *fakeLink) Wait(timeout time.Duration, input transport.LineSource) (transport.Ready, error) {
	var ready transport.Ready
	ready.Link = len(f.inbound) > 0 || (f.failAfter > 0 && f.reads >= f.failAfter)
	if in, ok := input.(*fakeInput); ok && in.ready() {
		ready.Input = true
	}
	if !ready.Link && !ready.Input {
		time.Sleep(timeout)
	}
	return ready, nil
}

// deviceOpcodes returns the opcodes of every device request written.
func (f *fakeLink) deviceOpcodes() []byte {
	var ops []byte
	for _, w := range f.writes {
		if op, ok := protocol.RequestOpcode(w); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

func (f *fakeLink) count(frame []byte) int {
	n := 0
	for _, w := range f.writes {
		if bytes.Equal(w, frame) {
			n++
		}
	}
	return n
}

// fakeInput delivers one batch of lines per read, then EOF.
type fakeInput struct {
	batches [][]string
}

func (in *fakeInput) ready() bool { return true }
func (in *fakeInput) Fd() int     { return -1 }

func (in *fakeInput) ReadLines() ([]string, error) {
	if len(in.batches) == 0 {
		return nil, io.EOF
	}
	lines := in.batches[0]
	in.batches = in.batches[1:]
	return lines, nil
}

// dialSequence hands out links in order; a nil entry fails the dial.
func dialSequence(links ...*fakeLink) Dialer {
	return func(ctx context.Context, address string) (Link, error) {
		if len(links) == 0 {
			return nil, transport.ErrConnectTimeout
		}
		l := links[0]
		links = links[1:]
		if l == nil {
			return nil, transport.ErrConnectTimeout
		}
		return l, nil
	}
}

// recorder captures observer events.
type recorder struct {
	NopObserver
	connected  int
	failed     int
	kinds      []string
	sent       []string
	rejected   []error
	reports    []*state.Report
	disconnect []error
}

func (r *recorder) Connected(string) {
	r.connected++
}

func (r *recorder) ConnectFailed(string, error) {
	r.failed++
}

func (r *recorder) Disconnected(_ string, err error) {
	r.disconnect = append(r.disconnect, err)
}

func (r *recorder) Identified(_ string, kind string) {
	r.kinds = append(r.kinds, kind)
}

func (r *recorder) Sent(req *command.Request) {
	r.sent = append(r.sent, req.Name)
}

func (r *recorder) Rejected(_ string, err error) {
	r.rejected = append(r.rejected, err)
}

func (r *recorder) Reported(_, _ string, rep *state.Report) {
	r.reports = append(r.reports, rep)
}

func testConfig(dial Dialer, rec *recorder, commands ...string) Config {
	return Config{
		Address:      "C0:00:00:00:12:34",
		Commands:     commands,
		Timeout:      2 * time.Second,
		PollInterval: 2 * time.Millisecond,
		Backoff:      5 * time.Millisecond,
		SettleDelay:  time.Millisecond,
		QueryTimeout: 50 * time.Millisecond,
		Dial:         dial,
		Observers:    []Observer{rec},
	}
}
