package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrNotSegment       = errors.New("not a state notification")
	ErrTruncatedSegment = errors.New("truncated state segment")
	ErrNotReadByType    = errors.New("not a read by type response")
)

// Segment is one slice of the device state record carried by a notification
type Segment struct {
	Index   byte
	Length  int
	Payload []byte
}

// String returns a human-readable representation of the segment
func (s *Segment) String() string {
	return fmt.Sprintf("Segment{index=%d, length=%d}", s.Index, s.Length)
}

// ParseStateSegment extracts a state segment from a Handle Value Notification.
//
// Packets that are not query notifications return ErrNotSegment. A segment
// whose declared length runs past the end of the packet returns
// ErrTruncatedSegment.
func ParseStateSegment(data []byte) (*Segment, error) {
	if len(data) < SegmentHeader {
		return nil, ErrNotSegment
	}
	if data[0] != OpHandleValueNotification || data[3] != PacketMarker || data[4] != OpcodeQuery {
		return nil, ErrNotSegment
	}

	length := int(data[8])
	if SegmentHeader+length > len(data) {
		return nil, fmt.Errorf("%w: declared %d bytes, have %d", ErrTruncatedSegment, length, len(data)-SegmentHeader)
	}

	return &Segment{
		Index:   data[7],
		Length:  length,
		Payload: data[SegmentHeader : SegmentHeader+length],
	}, nil
}

// ParseReadByTypeValue returns the bytes following the Read By Type response
// header, which is what identification compares against.
func ParseReadByTypeValue(data []byte) ([]byte, error) {
	if len(data) <= readByTypeHeader || data[0] != OpReadByTypeResponse {
		return nil, ErrNotReadByType
	}
	return data[readByTypeHeader:], nil
}

// IsWriteResponse reports whether data is the bare write acknowledgement.
func IsWriteResponse(data []byte) bool {
	return len(data) == 1 && data[0] == OpWriteResponse
}
