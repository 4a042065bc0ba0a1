package protocol

import "fmt"

// ATT opcodes (Bluetooth Core Spec Vol 3, Part F, 3.4)
const (
	OpErrorResponse           = 0x01
	OpExchangeMTURequest      = 0x02
	OpExchangeMTUResponse     = 0x03
	OpFindInformationRequest  = 0x04
	OpFindInformationResponse = 0x05
	OpReadByTypeRequest       = 0x08
	OpReadByTypeResponse      = 0x09
	OpReadRequest             = 0x0a
	OpReadResponse            = 0x0b
	OpReadByGroupTypeRequest  = 0x10
	OpReadByGroupTypeResponse = 0x11
	OpWriteRequest            = 0x12
	OpWriteResponse           = 0x13
	OpHandleValueNotification = 0x1b
	OpHandleValueIndication   = 0x1d
	OpHandleValueConfirmation = 0x1e
	OpWriteCommand            = 0x52
)

// Attribute handles and types used by the controller
const (
	HandleControl        uint16 = 0x000e // Vendor characteristic value
	HandleControlCCCD    uint16 = 0x000f // Its client characteristic configuration
	UUIDClientCharConfig uint16 = 0x2902
)

// Vendor packet constants
const (
	PacketMarker = 0x53
	OpcodeQuery  = 0x02

	// marker, opcode, 00 01 00, length
	DeviceHeaderSize = 6
	// ATT write header plus vendor header
	RequestOverhead = 3 + DeviceHeaderSize
	// Largest request the controller accepts
	MaxFrameSize   = 48
	MaxPayloadSize = MaxFrameSize - RequestOverhead

	// Bytes before a segment payload
	SegmentHeader = 9
	// opcode, pair length, handle
	readByTypeHeader = 4
)

var opcodeNames = map[byte]string{
	OpErrorResponse:           "ERROR_RSP",
	OpExchangeMTURequest:      "MTU_REQ",
	OpExchangeMTUResponse:     "MTU_RSP",
	OpFindInformationRequest:  "FIND_INFO_REQ",
	OpFindInformationResponse: "FIND_INFO_RSP",
	OpReadByTypeRequest:       "READ_BY_TYPE_REQ",
	OpReadByTypeResponse:      "READ_BY_TYPE_RSP",
	OpReadRequest:             "READ_REQ",
	OpReadResponse:            "READ_RSP",
	OpReadByGroupTypeRequest:  "READ_BY_GROUP_REQ",
	OpReadByGroupTypeResponse: "READ_BY_GROUP_RSP",
	OpWriteRequest:            "WRITE_REQ",
	OpWriteResponse:           "WRITE_RSP",
	OpHandleValueNotification: "NOTIFY",
	OpHandleValueIndication:   "INDICATE",
	OpHandleValueConfirmation: "CONFIRM",
	OpWriteCommand:            "WRITE_CMD",
}

// OpcodeName returns a short name for an ATT opcode
func OpcodeName(op byte) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", op)
}
