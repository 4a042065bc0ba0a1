package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildWriteRequest constructs an ATT Write Request for handle
//
//	[0]     0x12     OpWriteRequest
//	[1-2]   handle   little-endian
//	[3+]    value
func BuildWriteRequest(handle uint16, value []byte) []byte {
	frame := make([]byte, 3+len(value))
	frame[0] = OpWriteRequest
	binary.LittleEndian.PutUint16(frame[1:3], handle)
	copy(frame[3:], value)
	return frame
}

// BuildDeviceRequest wraps a device opcode and payload in a vendor packet and
// writes it to the control handle.
func BuildDeviceRequest(opcode byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	value := make([]byte, DeviceHeaderSize+len(payload))
	value[0] = PacketMarker
	value[1] = opcode
	value[2] = 0x00
	value[3] = 0x01
	value[4] = 0x00
	value[5] = byte(len(payload))
	copy(value[DeviceHeaderSize:], payload)

	return BuildWriteRequest(HandleControl, value), nil
}

// BuildNotifyEnable constructs the write that turns on notifications for the
// control characteristic.
func BuildNotifyEnable() []byte {
	return BuildWriteRequest(HandleControlCCCD, []byte{0x01, 0x00})
}

// BuildIdentifyRequest constructs the Read By Type request whose response
// carries the device fingerprint.
//
//	[0]     0x08     OpReadByTypeRequest
//	[1-2]   0x0001   Start handle
//	[3-4]   0xffff   End handle
//	[5-6]   0x2902   Attribute type
func BuildIdentifyRequest() []byte {
	frame := make([]byte, 7)
	frame[0] = OpReadByTypeRequest
	binary.LittleEndian.PutUint16(frame[1:3], 0x0001)
	binary.LittleEndian.PutUint16(frame[3:5], 0xffff)
	binary.LittleEndian.PutUint16(frame[5:7], UUIDClientCharConfig)
	return frame
}

// RequestOpcode returns the device opcode carried by a frame built with
// BuildDeviceRequest.
func RequestOpcode(frame []byte) (byte, bool) {
	if len(frame) < RequestOverhead || frame[0] != OpWriteRequest || frame[3] != PacketMarker {
		return 0, false
	}
	if binary.LittleEndian.Uint16(frame[1:3]) != HandleControl {
		return 0, false
	}
	return frame[4], true
}

// RequestPayload returns the payload of a frame built with BuildDeviceRequest.
func RequestPayload(frame []byte) []byte {
	if _, ok := RequestOpcode(frame); !ok {
		return nil
	}
	n := int(frame[RequestOverhead-1])
	if RequestOverhead+n > len(frame) {
		return nil
	}
	return frame[RequestOverhead : RequestOverhead+n]
}
