package command

import "fmt"

// DirectiveKind selects what a Directive does to the payload
type DirectiveKind int

const (
	// DirectivePrepend appends a literal byte before the user arguments
	DirectivePrepend DirectiveKind = iota
	// DirectivePad appends a fill byte after the arguments until the
	// payload reaches Width bytes
	DirectivePad
)

// Directive is one step of a descriptor's payload adjustment.
type Directive struct {
	Kind  DirectiveKind
	Value byte
	Width int
}

// PrependByte returns a directive that places v ahead of the arguments.
func PrependByte(v byte) Directive {
	return Directive{Kind: DirectivePrepend, Value: v}
}

// PadTo returns a directive that fills the payload out to width bytes.
func PadTo(width int, fill byte) Directive {
	return Directive{Kind: DirectivePad, Value: fill, Width: width}
}

// String returns the directive in a compact form
func (d Directive) String() string {
	switch d.Kind {
	case DirectivePrepend:
		return fmt.Sprintf("prepend(%d)", d.Value)
	case DirectivePad:
		return fmt.Sprintf("pad(%d,%d)", d.Width, d.Value)
	default:
		return fmt.Sprintf("directive(%d)", int(d.Kind))
	}
}

// Guard restricts a level command to one direction of travel
type Guard int

const (
	GuardNone Guard = iota
	// GuardIncrease only sends when the requested level is above the current one
	GuardIncrease
	// GuardDecrease only sends when the requested level is below the current one
	GuardDecrease
)

// Descriptor defines one named command.
type Descriptor struct {
	Name       string
	Opcode     byte
	MinArgs    int
	MaxArgs    int
	Directives []Directive
	Guard      Guard
	Params     string
	Help       string
}

// Accepts reports whether n user arguments fit the descriptor.
func (d *Descriptor) Accepts(n int) bool {
	return n >= d.MinArgs && n <= d.MaxArgs
}

// PayloadWidth returns the fixed payload width set by a pad directive, or 0
// when the payload width depends on the arguments.
func (d *Descriptor) PayloadWidth() int {
	for _, dir := range d.Directives {
		if dir.Kind == DirectivePad {
			return dir.Width
		}
	}
	return 0
}

// Usage returns "name params".
func (d *Descriptor) Usage() string {
	if d.Params == "" {
		return d.Name
	}
	return d.Name + " " + d.Params
}

const (
	opQuery   = 0x02
	opLevel   = 0x51
	opBulk    = 0x5e
	opCustom  = 0x63
	levelRGB  = 0
	prefixOne = 1
)

// Table lists every command in display order.
var Table = []Descriptor{
	{Name: "query", Opcode: opQuery, MinArgs: 1, MaxArgs: 1,
		Params: "<0=short|1=long>", Help: "parameter query"},
	{Name: "onoff", Opcode: 0x08, MinArgs: 4, MaxArgs: 4, Directives: []Directive{PrependByte(prefixOne)},
		Params: "<1..4=effect> <1..3=speed> <pixels-high> <pixels-low>", Help: "effect used during power-on/off"},
	{Name: "coexist", Opcode: 0x0a, MinArgs: 1, MaxArgs: 1,
		Params: "<0=separate|1=combined>", Help: "color and white blending"},
	{Name: "reboot", Opcode: 0x0b, MinArgs: 1, MaxArgs: 1,
		Params: "<0=off|1=on|2=resume>", Help: "action when power is applied"},
	{Name: "power", Opcode: 0x50, MinArgs: 1, MaxArgs: 1,
		Params: "<0=off|1=on>", Help: "set power on/off (and trigger on-off effect)"},
	{Name: "level", Opcode: opLevel, MinArgs: 2, MaxArgs: 2,
		Params: "<0=color|1=white> <0..255>", Help: "change the color/white level (all modes)"},
	{Name: "rgb", Opcode: 0x52, MinArgs: 4, MaxArgs: 4,
		Params: "<0..255=r> <0..255=g> <0..255=b> <0..255=level>", Help: "set static mode color/intensity"},
	{Name: "mode", Opcode: 0x53, MinArgs: 1, MaxArgs: 2,
		Params: "<0=pause|1..7=mode> [<1..x=effect>]", Help: "set mode and optionally effect (effect count varies by mode)"},
	{Name: "speed", Opcode: 0x54, MinArgs: 1, MaxArgs: 1,
		Params: "<1..10=speed>", Help: "set effect speed (all modes)"},
	{Name: "len", Opcode: 0x55, MinArgs: 1, MaxArgs: 1,
		Params: "<1..150=len>", Help: "set dynamic-mode effect length"},
	{Name: "dir", Opcode: 0x56, MinArgs: 1, MaxArgs: 1,
		Params: "<0=left|1=right>", Help: "change dynamic-mode effect direction"},
	{Name: "rgb2", Opcode: 0x57, MinArgs: 3, MaxArgs: 3,
		Params: "<0..255=r> <0..255=g> <0..255=b>", Help: "change secondary rgb value"},
	{Name: "loop", Opcode: 0x58, MinArgs: 1, MaxArgs: 1,
		Params: "<0=off|1=on>", Help: "loop through mode effects"},
	{Name: "mic", Opcode: 0x59, MinArgs: 1, MaxArgs: 1,
		Params: "<0=internal|1=pulse-command>", Help: "internal microphone or sequence of pulse commands"},
	{Name: "gain", Opcode: 0x5a, MinArgs: 1, MaxArgs: 1,
		Params: "<0=disable|1..255=mic-gain>", Help: "set microphone gain or enable/disable pulse"},
	{Name: "pulse", Opcode: 0x5b, MinArgs: 0, MaxArgs: 0,
		Help: "send sound pulse for music effects"},
	{Name: "remote", Opcode: 0x5c, MinArgs: 2, MaxArgs: 20,
		Params: "<1..7=mode> <1..x=effect> ...", Help: "set up to 10 remote-control mode+effect pairs"},
	{Name: "play", Opcode: 0x5d, MinArgs: 1, MaxArgs: 1,
		Params: "<0=pause|1=play>", Help: "pause/play effects for dynamic/sound mode"},
	{Name: "bulk", Opcode: opBulk, MinArgs: 1, MaxArgs: 12,
		Params: "<1..7=mode> <1..4=effect> <1..255=level> <1..10=speed> <1..99=length> <0=left|1=right> <0..255=var44> <0..255=var45> <0..255=r> <0..255=g> <0..255=b> <0..255=var34>",
		Help:   "bulk set parms"},
	{Name: "static", Opcode: opBulk, MinArgs: 3, MaxArgs: 3,
		Directives: []Directive{PrependByte(1), PrependByte(1), PrependByte(255), PadTo(9, 0)},
		Params:     "<0..255=r> <0..255=g> <0..255=b>", Help: "atomic change to static"},
	{Name: "dynamic", Opcode: opBulk, MinArgs: 5, MaxArgs: 5, Directives: []Directive{PrependByte(3)},
		Params: "<1..130=effect> <1..255=level> <1..10=speed> <1..99=length> <0=left|1=right>", Help: "atomic change to dynamic"},
	{Name: "music", Opcode: opBulk, MinArgs: 5, MaxArgs: 5, Directives: []Directive{PrependByte(5)},
		Params: "<1..130=effect> <1..255=level> <1..10=speed> <1..99=length> <0=left|1=right>", Help: "atomic change to music"},
	{Name: "var34", Opcode: 0x61, MinArgs: 1, MaxArgs: 2,
		Params: "<0..255=var34> <0..255=var35>", Help: "changes var34/var35"},
	{Name: "mode2", Opcode: 0x62, MinArgs: 1, MaxArgs: 1,
		Params: "<0=pause|1..7=mode>", Help: "change mode without changing effect"},
	{Name: "custom", Opcode: opCustom, MinArgs: 4, MaxArgs: 28,
		Directives: []Directive{PrependByte(prefixOne), PadTo(28, 0)},
		Params:     "<1..20=len:r:g:b> [up to 6 additional]", Help: "set custom pattern (mode 7 to animate)"},
	{Name: "type", Opcode: 0x6a, MinArgs: 1, MaxArgs: 1, Directives: []Directive{PrependByte(prefixOne)},
		Params: "<1=pwm-mono|2=spi-mono|3=pwm-cct|4=spi-cct|5=pwm-rgb|6=spi-rgb|7=pwm-rgbw|8=spi-rgbw|9=pwm1+spi>", Help: "set led string type"},
	{Name: "order", Opcode: 0x6b, MinArgs: 1, MaxArgs: 1,
		Params: "<0=brg|1=bgr|2=rbg|3=gbr|4=rgb|5=grb>", Help: "set led order (works during animation)"},
	{Name: "ref", Opcode: 0x6c, MinArgs: 3, MaxArgs: 3,
		Params: "<0..255=led1> <0..255=led2> <0..255=led3>", Help: "show static color without order correction"},
	{Name: "set", Opcode: opLevel, MinArgs: 1, MaxArgs: 1, Directives: []Directive{PrependByte(levelRGB)},
		Params: "<0..255=level>", Help: "set the level (all modes)"},
	{Name: "inc", Opcode: opLevel, MinArgs: 1, MaxArgs: 1, Directives: []Directive{PrependByte(levelRGB)}, Guard: GuardIncrease,
		Params: "<0..255=level>", Help: "increase level unless already at or above it (query first)"},
	{Name: "dec", Opcode: opLevel, MinArgs: 1, MaxArgs: 1, Directives: []Directive{PrependByte(levelRGB)}, Guard: GuardDecrease,
		Params: "<0..255=level>", Help: "decrease level unless already at or below it (query first)"},
}

// index maps a name to its candidate descriptors in table order.
var index = buildIndex(Table)

func buildIndex(table []Descriptor) map[string][]*Descriptor {
	idx := make(map[string][]*Descriptor, len(table))
	for i := range table {
		d := &table[i]
		idx[d.Name] = append(idx[d.Name], d)
	}
	return idx
}

// Lookup returns the first descriptor named name that accepts argc
// arguments.
func Lookup(name string, argc int) (*Descriptor, error) {
	candidates, ok := index[name]
	if !ok {
		return nil, newError(ErrTypeUnknownCommand, name, "no such command")
	}
	for _, d := range candidates {
		if d.Accepts(argc) {
			return d, nil
		}
	}
	d := candidates[0]
	return nil, newError(ErrTypeArgumentCount, name, "got %d arguments, want %d..%d", argc, d.MinArgs, d.MaxArgs)
}
