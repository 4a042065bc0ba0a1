//go:build !linux

package transport

import (
	"context"
	"time"
)

// Conn is unavailable on this platform.
type Conn struct{}

// Dial always fails on this platform.
func Dial(ctx context.Context, address string) (*Conn, error) {
	if _, err := ParseAddress(address); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

func (c *Conn) Read(buf []byte) (int, error)  { return 0, ErrUnsupported }
func (c *Conn) Write(buf []byte) (int, error) { return 0, ErrUnsupported }
func (c *Conn) Close() error                  { return nil }
func (c *Conn) Address() Address              { return Address{} }

func (c *Conn) Wait(timeout time.Duration, input LineSource) (Ready, error) {
	return Ready{}, ErrUnsupported
}

// Input is unavailable on this platform.
type Input struct{ fd int }

func NewInput(fd int) *Input                   { return &Input{fd: fd} }
func (in *Input) Fd() int                      { return in.fd }
func (in *Input) ReadLines() ([]string, error) { return nil, ErrUnsupported }
