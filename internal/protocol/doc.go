// Package protocol implements the wire format spoken by SP630E LED controllers.
//
// The controllers expose a single vendor characteristic over Bluetooth LE. All
// traffic is plain ATT (Attribute Protocol) carried on the L2CAP fixed channel
// 0x0004; there is no GATT client library in between, so this package builds
// and classifies raw ATT PDUs.
//
// # Outbound Requests
//
// Every control command is an ATT Write Request to the control value handle
// 0x000e. The written value is a vendor packet:
//
//	[0]     0x12           ATT Write Request
//	[1-2]   0x000e         Control value handle (little-endian)
//	[3]     0x53           Vendor packet marker
//	[4]     opcode         Device opcode (0x02 query, 0x50 power, ...)
//	[5-7]   00 01 00       Fixed
//	[8]     length         Payload length
//	[9+]    payload        Command arguments
//
// Before the first query the client enables notifications by writing 0x0001
// to the client characteristic configuration descriptor at handle 0x000f.
//
// # Identification
//
// The device revision is recognised from the answer to a Read By Type request
// for the 0x2902 descriptor type over the whole handle range. The bytes after
// the four-byte response header are compared with the known fingerprints.
//
// # State Notifications
//
// A query is answered with a series of Handle Value Notifications:
//
//	[0]     0x1b           ATT Handle Value Notification
//	[1-2]   handle
//	[3]     0x53           Vendor packet marker
//	[4]     0x02           Query opcode
//	[5-6]   unused
//	[7]     segment        Segment index (0 starts a new record)
//	[8]     length         Segment payload length
//	[9+]    payload        Next slice of the device state record
//
// # Usage Example
//
//	frame, err := protocol.BuildDeviceRequest(protocol.OpcodeQuery, []byte{29})
//	if err != nil {
//	    return err
//	}
//	if _, err := conn.Write(frame); err != nil {
//	    return err
//	}
//
//	seg, err := protocol.ParseStateSegment(packet)
//	if err == nil {
//	    reassembler.OnSegment(seg.Index, seg.Length, seg.Payload)
//	}
package protocol
