package state

import "bytes"

// Record layout. Offsets are fixed by the controller firmware.
const (
	// Capacity is the size of the largest record the controller reports
	Capacity = 97
	// FixedPrefix is the number of bytes present in every record; remote
	// pairs follow it
	FixedPrefix = 77

	OffsetFirmware    = 0x05
	FirmwareWidth     = 8
	OffsetCoexist     = 0x12
	OffsetReboot      = 0x13
	OffsetPower       = 0x17
	OffsetLoop        = 0x18
	OffsetMode        = 0x1a
	OffsetEffect      = 0x1b
	OffsetLevel       = 0x1d
	OffsetWhite       = 0x1e
	OffsetRGB         = 0x1f
	OffsetVar34       = 0x22
	OffsetVar35       = 0x23
	OffsetSpeed       = 0x24
	OffsetLength      = 0x25
	OffsetDirection   = 0x26
	OffsetGain        = 0x27
	OffsetMic         = 0x28
	OffsetRGB2        = 0x29
	OffsetVar44       = 0x2c
	OffsetVar45       = 0x2d
	OffsetCustom      = 0x30
	CustomSlots       = 7
	CustomSlotWidth   = 4
	OffsetRemoteCount = 0x4c
	OffsetRemotePairs = 0x4d
	RemotePairs       = 10
)

// Record is the controller's configuration as a fixed-size byte buffer.
// The zero value is an empty record. Records are values; assigning one
// takes a snapshot.
type Record struct {
	buf [Capacity]byte
}

// NewRecord returns a record initialised from data. Bytes past Capacity are
// ignored.
func NewRecord(data []byte) Record {
	var r Record
	copy(r.buf[:], data)
	return r
}

// Byte returns the byte at off.
func (r *Record) Byte(off int) (byte, bool) {
	if off < 0 || off >= Capacity {
		return 0, false
	}
	return r.buf[off], true
}

// Slice returns a copy of n bytes starting at off.
func (r *Record) Slice(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off+n > Capacity {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, r.buf[off:off+n])
	return out, true
}

// Write copies p into the record at off. Nothing is written when p does not
// fit entirely.
func (r *Record) Write(off int, p []byte) bool {
	if off < 0 || off+len(p) > Capacity {
		return false
	}
	copy(r.buf[off:], p)
	return true
}

// Bytes returns a copy of the whole buffer.
func (r *Record) Bytes() []byte {
	out := make([]byte, Capacity)
	copy(out, r.buf[:])
	return out
}

// Reset clears the record.
func (r *Record) Reset() {
	r.buf = [Capacity]byte{}
}

// IsEmpty reports whether the record has never been filled.
func (r *Record) IsEmpty() bool {
	return r.buf == [Capacity]byte{}
}

// RemoteCount returns the number of remote-control pairs the record claims.
func (r *Record) RemoteCount() int {
	return int(r.buf[OffsetRemoteCount])
}

// MeaningfulLen returns how many leading bytes carry defined values.
func (r *Record) MeaningfulLen() int {
	return MeaningfulLen(r.RemoteCount())
}

// MeaningfulLen returns FixedPrefix plus two bytes per remote pair, capped at
// Capacity.
func MeaningfulLen(remoteCount int) int {
	n := FixedPrefix + remoteCount*2
	if n > Capacity {
		return Capacity
	}
	return n
}

// Level returns the color level.
func (r *Record) Level() byte {
	return r.buf[OffsetLevel]
}

// Firmware returns the firmware version string.
func (r *Record) Firmware() string {
	fw := r.buf[OffsetFirmware : OffsetFirmware+FirmwareWidth]
	if i := bytes.IndexByte(fw, 0); i >= 0 {
		fw = fw[:i]
	}
	return string(fw)
}
