package state

import (
	"fmt"
	"strings"
)

// ByteChange is a single byte that differs between two records.
type ByteChange struct {
	Offset   int
	Label    string
	Previous byte
	Current  byte
}

// String formats the change as (label)0xOO:PP->CC
func (c ByteChange) String() string {
	var b strings.Builder
	if c.Label != "" {
		fmt.Fprintf(&b, "(%s)", c.Label)
	}
	fmt.Fprintf(&b, "0x%02x:%02x->%02x", c.Offset, c.Previous, c.Current)
	return b.String()
}

// FieldValue is one rendered summary entry.
type FieldValue struct {
	Key       string `json:"key"`
	Previous  string `json:"previous,omitempty"`
	Current   string `json:"current"`
	Changed   bool   `json:"changed,omitempty"`
	Separator bool   `json:"-"`
}

// String formats the entry as key=prev->cur or key=cur. Separators render
// as their literal text.
func (v FieldValue) String() string {
	switch {
	case v.Separator:
		return v.Current
	case v.Changed:
		return fmt.Sprintf("%s=%s->%s ", v.Key, v.Previous, v.Current)
	default:
		return fmt.Sprintf("%s=%s ", v.Key, v.Current)
	}
}

// Report describes one completed query compared with the one before it.
type Report struct {
	Query    int
	Firmware string
	Changes  []ByteChange
	Fields   []FieldValue
	Record   []byte
}

// HasChanges reports whether any byte differs.
func (r *Report) HasChanges() bool {
	return len(r.Changes) > 0
}

// DiffLine joins the byte changes with spaces.
func (r *Report) DiffLine() string {
	parts := make([]string, len(r.Changes))
	for i, c := range r.Changes {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Summary concatenates every field entry in layout order.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, v := range r.Fields {
		b.WriteString(v.String())
	}
	return b.String()
}

// Value returns the current rendering of key.
func (r *Report) Value(key string) (string, bool) {
	for _, v := range r.Fields {
		if !v.Separator && v.Key == key {
			return v.Current, true
		}
	}
	return "", false
}

// Values maps every field key to its current rendering.
func (r *Report) Values() map[string]string {
	values := make(map[string]string, len(r.Fields))
	for _, v := range r.Fields {
		if !v.Separator {
			values[v.Key] = v.Current
		}
	}
	return values
}

// Compare builds the report for current against previous. Only the
// meaningful length of current is compared; fields that extend past it are
// shown with their current value and never marked changed.
func Compare(previous, current *Record) Report {
	limit := current.MeaningfulLen()

	report := Report{
		Firmware: current.Firmware(),
		Record:   current.Bytes(),
	}

	for off := 0; off < limit; off++ {
		p, _ := previous.Byte(off)
		c, _ := current.Byte(off)
		if p != c {
			report.Changes = append(report.Changes, ByteChange{
				Offset:   off,
				Label:    Label(off),
				Previous: p,
				Current:  c,
			})
		}
	}

	report.Fields = make([]FieldValue, 0, len(Fields))
	for _, f := range Fields {
		if f.IsSeparator() {
			report.Fields = append(report.Fields, FieldValue{Key: f.Key, Current: f.Key, Separator: true})
			continue
		}
		v := FieldValue{Key: f.Key, Current: f.Render(current)}
		if f.End() <= limit {
			if prev := f.Render(previous); prev != v.Current {
				v.Previous = prev
				v.Changed = true
			}
		}
		report.Fields = append(report.Fields, v)
	}

	return report
}
