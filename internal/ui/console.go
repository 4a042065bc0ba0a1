package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/state"
)

// Console prints session events. Reports go to Out; diffs, link events and
// rejected commands go to Err.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	err       io.Writer
	outStyled bool
	errStyled bool
}

// NewConsole returns a console writing to out and errOut. Styling is enabled
// per stream when it is a terminal.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{
		out:       out,
		err:       errOut,
		outStyled: IsTerminal(out),
		errStyled: IsTerminal(errOut),
	}
}

func (c *Console) event(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.err, painter(c.errStyled).paint(EventStyle, fmt.Sprintf(format, args...)))
}

func (c *Console) Connected(address string) {
	c.event("connected %s", address)
}

func (c *Console) ConnectFailed(address string, err error) {
	c.event("connect %s: %v", address, err)
}

func (c *Console) Disconnected(address string, err error) {
	if err != nil {
		c.event("disconnected %s: %v", address, err)
	}
}

func (c *Console) Identified(_ string, kind string) {
	c.event("found %s", kind)
}

func (c *Console) Sent(*command.Request) {}

func (c *Console) Rejected(line string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := painter(c.errStyled)
	if command.IsGuard(err) {
		fmt.Fprintln(c.err, p.paint(EventStyle, fmt.Sprintf("skipped %q: %v", line, err)))
		return
	}
	fmt.Fprintln(c.err, p.paint(ErrorMessageStyle, fmt.Sprintf("%q: %v", line, err)))
}

func (c *Console) Segment(state.SegmentResult) {}

func (c *Console) Reported(_, _ string, report *state.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diff := RenderDiff(report, c.errStyled); diff != "" {
		fmt.Fprintln(c.err, diff)
	}
	fmt.Fprintln(c.out, RenderSummary(report, c.outStyled))
}
