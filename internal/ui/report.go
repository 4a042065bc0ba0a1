package ui

import (
	"fmt"
	"strings"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/state"
)

// DiffPrefix starts every diff line.
const DiffPrefix = "diff: "

// RenderDiff formats the byte changes of a report as one line. It returns ""
// when nothing changed.
func RenderDiff(report *state.Report, styled bool) string {
	if !report.HasChanges() {
		return ""
	}
	p := painter(styled)

	parts := make([]string, len(report.Changes))
	for i, c := range report.Changes {
		parts[i] = p.paint(DiffChangeStyle, c.String())
	}
	return p.paint(DiffLabelStyle, strings.TrimSpace(DiffPrefix)) + " " + strings.Join(parts, " ")
}

// RenderSummary formats every field of a report. Unstyled output is exactly
// the report's Summary.
func RenderSummary(report *state.Report, styled bool) string {
	if !styled {
		return report.Summary()
	}
	p := painter(styled)

	var b strings.Builder
	for _, v := range report.Fields {
		if v.Separator {
			b.WriteString(v.Current)
			continue
		}
		b.WriteString(p.paint(FieldKeyStyle, v.Key+"="))
		if v.Changed {
			b.WriteString(p.paint(FieldPreviousStyle, v.Previous))
			b.WriteString("->")
			b.WriteString(p.paint(FieldChangedStyle, v.Current))
		} else {
			b.WriteString(p.paint(FieldValueStyle, v.Current))
		}
		b.WriteString(" ")
	}
	return b.String()
}

// RenderHelp lists the commands one per line as "name params (help)", the
// format shown by the interactive help command.
func RenderHelp(styled bool) string {
	p := painter(styled)

	var b strings.Builder
	b.WriteString("parameters can be decimal or 0x-prefixed hexadecimal\n")
	b.WriteString(command.RawMarker + "<request> <parm1> [<parm2> ...] (send a raw request)\n")
	for i := range command.Table {
		d := &command.Table[i]
		b.WriteString(p.paint(CommandNameStyle, d.Name))
		if d.Params != "" {
			b.WriteString(" " + d.Params)
		}
		fmt.Fprintf(&b, " (%s)\n", d.Help)
	}
	return b.String()
}

// RenderUsage lists the commands as command-line flags with the help text
// aligned in a second column.
func RenderUsage(styled bool) string {
	p := painter(styled)

	var b strings.Builder
	for i := range command.Table {
		d := &command.Table[i]
		flag := fmt.Sprintf("  --%s=%q", d.Name, d.Params)
		fmt.Fprintf(&b, "%-40s  %s\n", flag, p.paint(FieldKeyStyle, d.Help))
	}
	return b.String()
}

// RenderFields lists the record layout: offset, width, format and key.
func RenderFields(styled bool) string {
	p := painter(styled)

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-5s %-12s %s\n", "offset", "width", "format", "key")
	for _, f := range state.Fields {
		if f.IsSeparator() {
			continue
		}
		fmt.Fprintf(&b, "0x%02x   %-5d %-12s %s\n", f.Offset, f.Width, f.Format, p.paint(CommandNameStyle, f.Key))
	}
	fmt.Fprintf(&b, "record: %d fixed bytes, 2 per remote pair, %d max\n", state.FixedPrefix, state.Capacity)
	return b.String()
}
