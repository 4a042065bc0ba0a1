// Package command encodes SP630E control commands into request frames.
//
// Each named command is a Descriptor in Table: a device opcode, the range of
// user arguments it accepts, and the directives that shape its payload.
// Several descriptors share an opcode and differ only in their directives;
// static, dynamic and music are fixed-prefix forms of bulk.
//
//	req, err := command.EncodeLine("rgb 10 20 30 255", command.Baseline{})
//	// req.Frame = 12 0e 00 53 52 00 01 00 04 0a 14 1e ff
//
// A failed encode returns a *command.Error and never produces a frame.
package command
