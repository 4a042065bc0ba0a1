// Package identify recognises SP630E hardware revisions from their response
// to the descriptor discovery request.
package identify

import "bytes"

// Fingerprint pairs a device kind with the exact response bytes it sends.
type Fingerprint struct {
	Kind    string
	Pattern []byte
}

// Fingerprints are checked in order; the first exact match wins.
var Fingerprints = []Fingerprint{
	{Kind: "SP630E-0", Pattern: []byte{0x00, 0x00, 0x0f, 0x00, 0x00, 0x00, 0x15, 0x00, 0x00, 0x00}},
	{Kind: "SP630E-1", Pattern: []byte{0x00, 0x00, 0x0f, 0x00, 0x01, 0x00, 0x15, 0x00, 0x00, 0x00}},
}

// Match returns the kind whose pattern equals value in length and content.
// An unrecognised value returns false; there is no default kind.
func Match(value []byte) (string, bool) {
	for _, fp := range Fingerprints {
		if bytes.Equal(value, fp.Pattern) {
			return fp.Kind, true
		}
	}
	return "", false
}
