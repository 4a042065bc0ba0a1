//go:build linux

package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Input reads command lines from a file descriptor without blocking the
// session loop for longer than one read.
type Input struct {
	fd      int
	pending []byte
}

// NewInput wraps fd, usually 0 for stdin.
func NewInput(fd int) *Input {
	return &Input{fd: fd}
}

// Fd returns the descriptor to poll.
func (in *Input) Fd() int {
	return in.fd
}

// ReadLines performs one read and returns every complete line. At end of
// input a trailing partial line is returned together with io.EOF.
func (in *Input) ReadLines() ([]string, error) {
	buf := make([]byte, 1024)
	n, err := unix.Read(in.fd, buf)
	if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("transport: read input: %w", err)
	}
	if n == 0 {
		var lines []string
		if len(bytes.TrimSpace(in.pending)) > 0 {
			lines = append(lines, string(in.pending))
		}
		in.pending = nil
		return lines, io.EOF
	}
	return in.split(buf[:n]), nil
}

func (in *Input) split(data []byte) []string {
	in.pending = append(in.pending, data...)

	var lines []string
	for {
		i := bytes.IndexByte(in.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(in.pending[:i]))
		in.pending = in.pending[i+1:]
	}
	return lines
}
