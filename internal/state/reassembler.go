package state

import "fmt"

// Phase is the position of the query cursor.
type Phase int

const (
	// PhaseIdle means no query is outstanding; commands may be sent
	PhaseIdle Phase = iota
	// PhaseAwaiting means a query was sent and no segment has arrived yet
	PhaseAwaiting
	// PhaseReceiving means segments are being accumulated
	PhaseReceiving
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseReceiving:
		return "receiving"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SegmentResult tells the caller what a segment did to the record.
type SegmentResult int

const (
	// SegmentStored means the bytes were written and more are expected
	SegmentStored SegmentResult = iota
	// SegmentDropped means the bytes would overflow the record
	SegmentDropped
	// SegmentComplete means the record is now whole
	SegmentComplete
)

// String returns the result name
func (r SegmentResult) String() string {
	switch r {
	case SegmentStored:
		return "stored"
	case SegmentDropped:
		return "dropped"
	case SegmentComplete:
		return "complete"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Reassembler accumulates notification segments into a Record.
type Reassembler struct {
	phase     Phase
	offset    int
	completed int
}

// Phase returns the current phase.
func (q *Reassembler) Phase() Phase {
	return q.phase
}

// Idle reports whether no query is outstanding.
func (q *Reassembler) Idle() bool {
	return q.phase == PhaseIdle
}

// Offset returns the number of bytes accumulated for the current record.
func (q *Reassembler) Offset() int {
	return q.offset
}

// Completed returns how many records have been completed since Reset.
func (q *Reassembler) Completed() int {
	return q.completed
}

// Begin marks a query as sent.
func (q *Reassembler) Begin() {
	q.phase = PhaseAwaiting
	q.offset = 0
}

// Abort abandons the record in progress without counting it.
func (q *Reassembler) Abort() {
	q.phase = PhaseIdle
	q.offset = 0
}

// Reset returns the reassembler to its initial state.
func (q *Reassembler) Reset() {
	*q = Reassembler{}
}

// OnSegment writes payload into rec at the current offset. Segment index 0
// always restarts the record. A segment that would run past Capacity is
// dropped without moving the offset.
//
// The record is complete once at least FixedPrefix bytes are present and the
// offset has reached the length implied by the remote count.
func (q *Reassembler) OnSegment(rec *Record, index byte, payload []byte) SegmentResult {
	if index == 0 {
		q.offset = 0
	}
	q.phase = PhaseReceiving

	if !rec.Write(q.offset, payload) {
		return SegmentDropped
	}
	q.offset += len(payload)

	if q.offset < FixedPrefix || q.offset < rec.MeaningfulLen() {
		return SegmentStored
	}

	q.phase = PhaseIdle
	q.offset = 0
	q.completed++
	return SegmentComplete
}
