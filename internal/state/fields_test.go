package state

import "testing"

func TestFieldRender(t *testing.T) {
	rec := NewRecord(nil)
	rec.Write(OffsetFirmware, []byte("V2.1"))
	rec.Write(OffsetPower, []byte{1})
	rec.Write(OffsetRGB, []byte{0xff, 0x80, 0x00})
	rec.Write(OffsetCustom+4, []byte{12, 0xc1, 0x31, 0x1c})
	rec.Write(OffsetRemotePairs+2, []byte{3, 17})

	tests := []struct {
		key  string
		want string
	}{
		{"fw", "V2.1"},
		{"power", "1"},
		{"rgb", "ff:80:00"},
		{"cust1", "12/c1:31:1c"},
		{"rme1", "3:17"},
		{"mode", "0"},
		{"coexist", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, ok := Lookup(tt.key)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.key)
			}
			if got := f.Render(&rec); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldsWithinRecord(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Fields {
		if f.IsSeparator() {
			if f.Key != "\n" {
				t.Errorf("separator text = %q", f.Key)
			}
			continue
		}
		if f.Offset < 0 || f.End() > Capacity {
			t.Errorf("field %s [%d,%d) outside record", f.Key, f.Offset, f.End())
		}
		if seen[f.Key] {
			t.Errorf("duplicate key %s", f.Key)
		}
		seen[f.Key] = true
	}
	if len(seen) != 37 {
		t.Errorf("got %d data fields, want 37", len(seen))
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		off  int
		want string
	}{
		{OffsetFirmware + 7, "fw"},
		{OffsetLevel, "level"},
		{OffsetRGB2 + 2, "rgb2"},
		{OffsetCustom + 27, "cust6"},
		{OffsetRemoteCount, "rcnt"},
		{Capacity - 1, "rme9"},
		{0x00, ""},
		{0x2e, ""},
		{Capacity, ""},
	}
	for _, tt := range tests {
		if got := Label(tt.off); got != tt.want {
			t.Errorf("Label(0x%02x) = %q, want %q", tt.off, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if FormatLengthColor.String() != "len/rgb" {
		t.Errorf("FormatLengthColor.String() = %q", FormatLengthColor.String())
	}
	if Format(99).String() != "format(99)" {
		t.Errorf("Format(99).String() = %q", Format(99).String())
	}
}
