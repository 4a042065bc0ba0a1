package command

import (
	"fmt"
	"strings"

	"github.com/vrazzer/LED-control/internal/protocol"
)

// Baseline is the device state guarded commands are checked against.
type Baseline struct {
	// Queried is true once a query has completed on this connection
	Queried bool
	// Level is the color level from the last completed query
	Level byte
}

// Request is an encoded command ready to be written to the transport.
type Request struct {
	Name    string
	Opcode  byte
	Payload []byte
	Frame   []byte
	Raw     bool
}

// IsQuery reports whether the request asks the device for its state.
func (r *Request) IsQuery() bool {
	return r.Opcode == protocol.OpcodeQuery
}

// String returns a human-readable representation of the request
func (r *Request) String() string {
	return fmt.Sprintf("%s(opcode=0x%02x, payload=% x)", r.Name, r.Opcode, r.Payload)
}

// EncodeLine parses and encodes one command line.
func EncodeLine(line string, base Baseline) (*Request, error) {
	name, args, err := ParseLine(line)
	if err != nil {
		return nil, err
	}
	return Encode(name, args, base)
}

// Encode turns a command name and its arguments into a request frame.
//
// Names starting with RawMarker carry the opcode themselves and take any
// number of arguments with no adjustment. Every other name is resolved
// through Table.
func Encode(name string, args []string, base Baseline) (*Request, error) {
	if name == "" {
		return nil, newError(ErrTypeEmpty, "", "empty command name")
	}

	values, err := parseArgs(name, args)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(name, RawMarker) {
		opcode, err := ParseByte(strings.TrimPrefix(name, RawMarker))
		if err != nil {
			return nil, &Error{Type: ErrTypeUnknownCommand, Command: name, Message: "raw opcode is not a number in 0..255", Err: err}
		}
		return build(name, opcode, values, true)
	}

	d, err := Lookup(name, len(values))
	if err != nil {
		return nil, err
	}

	payload := Apply(d, values)
	if err := checkGuard(d, payload, base); err != nil {
		return nil, err
	}
	return build(name, d.Opcode, payload, false)
}

// Apply runs the descriptor's directives around args. Prepend directives
// run in order before the arguments; pad directives run after them.
func Apply(d *Descriptor, args []byte) []byte {
	payload := make([]byte, 0, len(d.Directives)+len(args))
	for _, dir := range d.Directives {
		if dir.Kind == DirectivePrepend {
			payload = append(payload, dir.Value)
		}
	}
	payload = append(payload, args...)
	for _, dir := range d.Directives {
		if dir.Kind == DirectivePad {
			for len(payload) < dir.Width {
				payload = append(payload, dir.Value)
			}
		}
	}
	return payload
}

// checkGuard rejects monotonic level commands that would move the level the
// wrong way. Without a completed query there is nothing to compare against
// and the command passes.
func checkGuard(d *Descriptor, payload []byte, base Baseline) error {
	if d.Guard == GuardNone || !base.Queried || len(payload) == 0 {
		return nil
	}

	requested := payload[len(payload)-1]
	switch d.Guard {
	case GuardIncrease:
		if requested <= base.Level {
			return newError(ErrTypeGuard, d.Name, "level %d is already at or above %d", base.Level, requested)
		}
	case GuardDecrease:
		if requested >= base.Level {
			return newError(ErrTypeGuard, d.Name, "level %d is already at or below %d", base.Level, requested)
		}
	}
	return nil
}

func build(name string, opcode byte, payload []byte, raw bool) (*Request, error) {
	frame, err := protocol.BuildDeviceRequest(opcode, payload)
	if err != nil {
		return nil, &Error{Type: ErrTypePayloadTooLong, Command: name, Message: "request does not fit in one frame", Err: err}
	}
	return &Request{
		Name:    name,
		Opcode:  opcode,
		Payload: payload,
		Frame:   frame,
		Raw:     raw,
	}, nil
}
