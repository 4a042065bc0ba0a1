package state

import (
	"fmt"
	"strings"
)

// Format selects how a field's bytes are rendered.
type Format int

const (
	// FormatInt renders one byte as a decimal number
	FormatInt Format = iota
	// FormatText renders a NUL-terminated string of at most Width bytes
	FormatText
	// FormatHexTriplet renders three bytes as rr:gg:bb
	FormatHexTriplet
	// FormatLengthColor renders a length byte followed by an rgb triplet
	FormatLengthColor
	// FormatPair renders two bytes as a:b
	FormatPair
	// FormatSeparator has no backing bytes and renders Key verbatim
	FormatSeparator
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatInt:
		return "int"
	case FormatText:
		return "text"
	case FormatHexTriplet:
		return "rgb"
	case FormatLengthColor:
		return "len/rgb"
	case FormatPair:
		return "pair"
	case FormatSeparator:
		return "separator"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Field describes one named region of the record.
type Field struct {
	Key    string
	Offset int
	Width  int
	Format Format
}

// IsSeparator reports whether the field is a layout break rather than data.
func (f Field) IsSeparator() bool {
	return f.Format == FormatSeparator
}

// Render formats the field's bytes from r.
func (f Field) Render(r *Record) string {
	if f.IsSeparator() {
		return f.Key
	}
	b, ok := r.Slice(f.Offset, f.Width)
	if !ok {
		return "?"
	}

	switch f.Format {
	case FormatText:
		if i := strings.IndexByte(string(b), 0); i >= 0 {
			b = b[:i]
		}
		return string(b)
	case FormatHexTriplet:
		return fmt.Sprintf("%02x:%02x:%02x", b[0], b[1], b[2])
	case FormatLengthColor:
		return fmt.Sprintf("%d/%02x:%02x:%02x", b[0], b[1], b[2], b[3])
	case FormatPair:
		return fmt.Sprintf("%d:%d", b[0], b[1])
	default:
		return fmt.Sprintf("%d", b[0])
	}
}

// End returns the offset just past the field.
func (f Field) End() int {
	return f.Offset + f.Width
}

func separator(text string) Field {
	return Field{Key: text, Format: FormatSeparator}
}

func scalar(key string, off int) Field {
	return Field{Key: key, Offset: off, Width: 1, Format: FormatInt}
}

// Fields is the summary layout, in display order.
var Fields = buildFields()

func buildFields() []Field {
	fields := []Field{
		{Key: "fw", Offset: OffsetFirmware, Width: FirmwareWidth, Format: FormatText},
		separator("\n"),
		scalar("power", OffsetPower),
		scalar("reboot", OffsetReboot),
		scalar("mode", OffsetMode),
		scalar("effect", OffsetEffect),
		scalar("speed", OffsetSpeed),
		scalar("len", OffsetLength),
		scalar("dir", OffsetDirection),
		scalar("loop", OffsetLoop),
		{Key: "rgb", Offset: OffsetRGB, Width: 3, Format: FormatHexTriplet},
		scalar("var34", OffsetVar34),
		scalar("var35", OffsetVar35),
		scalar("level", OffsetLevel),
		scalar("white", OffsetWhite),
		scalar("gain", OffsetGain),
		scalar("mic", OffsetMic),
		{Key: "rgb2", Offset: OffsetRGB2, Width: 3, Format: FormatHexTriplet},
		scalar("var44", OffsetVar44),
		scalar("var45", OffsetVar45),
		separator("\n"),
	}
	for i := 0; i < CustomSlots; i++ {
		fields = append(fields, Field{
			Key:    fmt.Sprintf("cust%d", i),
			Offset: OffsetCustom + i*CustomSlotWidth,
			Width:  CustomSlotWidth,
			Format: FormatLengthColor,
		})
	}
	fields = append(fields, separator("\n"), scalar("rcnt", OffsetRemoteCount))
	for i := 0; i < RemotePairs; i++ {
		fields = append(fields, Field{
			Key:    fmt.Sprintf("rme%d", i),
			Offset: OffsetRemotePairs + i*2,
			Width:  2,
			Format: FormatPair,
		})
	}
	return fields
}

// labels maps each byte offset to the key of the field that covers it. Bytes
// not covered by the summary layout get a label from extraLabels or none.
var labels = buildLabels()

var extraLabels = []Field{
	scalar("coexist", OffsetCoexist),
}

func buildLabels() [Capacity]string {
	var out [Capacity]string
	for _, f := range append(append([]Field{}, Fields...), extraLabels...) {
		if f.IsSeparator() {
			continue
		}
		for off := f.Offset; off < f.End() && off < Capacity; off++ {
			out[off] = f.Key
		}
	}
	return out
}

// Label returns the field key covering off, or "" for unnamed bytes.
func Label(off int) string {
	if off < 0 || off >= Capacity {
		return ""
	}
	return labels[off]
}

// Lookup returns the field with key.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields {
		if !f.IsSeparator() && f.Key == key {
			return f, true
		}
	}
	for _, f := range extraLabels {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
