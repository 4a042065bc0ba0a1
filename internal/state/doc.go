// Package state models the SP630E configuration record.
//
// The controller answers a query with its whole configuration as a 97-byte
// record split across several notifications. This package holds that record
// (Record), the named layout used to display it (Fields), the cursor that
// puts segments back together (Reassembler), and the comparison between two
// snapshots (Compare).
//
// Only the first 77 bytes plus two bytes per remote-control pair are defined.
// Compare never reports bytes past that length as changed.
package state
