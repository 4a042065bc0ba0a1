//go:build linux

package transport

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"golang.org/x/sys/unix"
)

func TestInputReadLines(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("Pipe() error = %v", err)
	}
	defer unix.Close(fds[0])

	in := NewInput(fds[0])
	if in.Fd() != fds[0] {
		t.Errorf("Fd() = %d, want %d", in.Fd(), fds[0])
	}

	if _, err := unix.Write(fds[1], []byte("power 1\nrgb 1 2")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	lines, err := in.ReadLines()
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"power 1"}) {
		t.Errorf("first ReadLines() = %q, want [power 1]", lines)
	}

	if _, err := unix.Write(fds[1], []byte(" 3 4\nquery")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	lines, err = in.ReadLines()
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"rgb 1 2 3 4"}) {
		t.Errorf("second ReadLines() = %q, want [rgb 1 2 3 4]", lines)
	}

	unix.Close(fds[1])
	lines, err = in.ReadLines()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("ReadLines() at end error = %v, want EOF", err)
	}
	if !reflect.DeepEqual(lines, []string{"query"}) {
		t.Errorf("final ReadLines() = %q, want [query]", lines)
	}
}
