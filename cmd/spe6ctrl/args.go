package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vrazzer/LED-control/internal/config"
	"github.com/vrazzer/LED-control/internal/session"
	"github.com/vrazzer/LED-control/internal/transport"
	"github.com/vrazzer/LED-control/internal/ui"
)

// connectArgs is the positional part of the connect command line.
type connectArgs struct {
	Target   string
	Timeout  time.Duration // zero when not given
	Commands []string
}

// parseConnectArgs splits "<target> [timeout] [command ...]". A second
// argument that is a whole number is the timeout in seconds.
func parseConnectArgs(args []string) (connectArgs, error) {
	var ca connectArgs
	if len(args) == 0 {
		return ca, fmt.Errorf("missing device address or alias")
	}
	ca.Target = args[0]
	rest := args[1:]

	if len(rest) > 0 {
		if secs, err := strconv.Atoi(rest[0]); err == nil {
			if secs <= 0 {
				return ca, fmt.Errorf("invalid timeout %q: must be positive", rest[0])
			}
			ca.Timeout = time.Duration(secs) * time.Second
			rest = rest[1:]
		}
	}
	ca.Commands = rest
	return ca, nil
}

// resolveTimeout picks the session deadline: flag, then positional
// argument, then the configured preference, then the built-in default.
func resolveTimeout(flag, positional time.Duration, prefs *config.Preferences) time.Duration {
	switch {
	case flag > 0:
		return flag
	case positional > 0:
		return positional
	case prefs != nil && prefs.Timeout > 0:
		return time.Duration(prefs.Timeout) * time.Second
	default:
		return session.DefaultTimeout
	}
}

// firstSet returns the first non-empty value.
func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// helpInput answers "help" lines locally and passes every other line to
// the session.
type helpInput struct {
	transport.LineSource
	out    io.Writer
	styled bool
}

func (h *helpInput) ReadLines() ([]string, error) {
	lines, err := h.LineSource.ReadLines()
	kept := lines[:0]
	for _, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), "help") {
			fmt.Fprint(h.out, ui.RenderHelp(h.styled))
			continue
		}
		kept = append(kept, line)
	}
	return kept, err
}
