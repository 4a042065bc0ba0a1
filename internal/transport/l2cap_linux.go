//go:build linux

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/vrazzer/LED-control/internal/logging"
)

// Not exported by x/sys/unix (linux/include/net/bluetooth/bluetooth.h).
const (
	btSecurity    = 4
	btSecurityLow = 1
	attCID        = 4
)

// Conn is an L2CAP LE connection to one device.
type Conn struct {
	mu      sync.Mutex
	fd      int
	address Address
	closed  bool
}

// Dial connects to address on the ATT channel at low security. The attempt
// is bounded by MaxConnectWait and by the context deadline, whichever is
// sooner.
func Dial(ctx context.Context, address string) (*Conn, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return nil, fmt.Errorf("transport: create socket: %w", err)
	}

	// The kernel needs a bound LE source before an LE connect.
	local := &unix.SockaddrL2{CID: attCID, AddrType: unix.BDADDR_LE_PUBLIC}
	if err := unix.Bind(fd, local); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: bind: %w", err)
	}

	// struct bt_security { uint8_t level; uint8_t key_size; }
	if err := unix.SetsockoptString(fd, unix.SOL_BLUETOOTH, btSecurity, string([]byte{btSecurityLow, 0})); err != nil {
		logging.Warn("Failed to set link security", zap.String("address", addr.String()), zap.Error(err))
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: set non-blocking: %w", err)
	}

	remote := &unix.SockaddrL2{CID: attCID, AddrType: unix.BDADDR_LE_PUBLIC, Addr: addr}
	err = unix.Connect(fd, remote)
	if err != nil && !errors.Is(err, unix.EINPROGRESS) && !errors.Is(err, unix.EAGAIN) {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: connect %s: %w", addr, err)
	}

	if err != nil {
		deadline, _ := ctx.Deadline()
		wait := connectWait(deadline, time.Now())
		logging.Debug("Waiting for connection", zap.String("address", addr.String()), zap.Duration("timeout", wait))
		if err := waitWritable(fd, wait); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("transport: connect %s: %w", addr, err)
		}
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: set blocking: %w", err)
	}

	return &Conn{fd: fd, address: addr}, nil
}

// waitWritable polls for connect completion and returns the socket error.
func waitWritable(fd int, wait time.Duration) error {
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	for {
		n, err := unix.Poll(pfd, int(wait.Milliseconds()))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if n == 0 {
			return ErrConnectTimeout
		}
		break
	}

	soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return fmt.Errorf("get socket error: %w", err)
	}
	if soErr != 0 {
		return unix.Errno(soErr)
	}
	if pfd[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return fmt.Errorf("revents=0x%02x", pfd[0].Revents)
	}
	return nil
}

// Read reads one PDU. A zero-length read means the peer closed the link.
func (c *Conn) Read(buf []byte) (int, error) {
	fd, err := c.handle()
	if err != nil {
		return 0, err
	}
	n, err := unix.Read(fd, buf)
	if err != nil {
		return 0, fmt.Errorf("transport: read: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write sends one PDU.
func (c *Conn) Write(buf []byte) (int, error) {
	fd, err := c.handle()
	if err != nil {
		return 0, err
	}
	n, err := unix.Write(fd, buf)
	if err != nil {
		return 0, fmt.Errorf("transport: write: %w", err)
	}
	return n, nil
}

// Wait blocks until the link or input is readable or timeout elapses. A
// hung-up link is reported readable so the next Read surfaces the error.
func (c *Conn) Wait(timeout time.Duration, input LineSource) (Ready, error) {
	fd, err := c.handle()
	if err != nil {
		return Ready{}, err
	}

	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	if input != nil {
		pfd = append(pfd, unix.PollFd{Fd: int32(input.Fd()), Events: unix.POLLIN})
	}

	n, err := unix.Poll(pfd, int(timeout.Milliseconds()))
	if errors.Is(err, unix.EINTR) {
		return Ready{}, nil
	}
	if err != nil {
		return Ready{}, fmt.Errorf("transport: poll: %w", err)
	}
	if n == 0 {
		return Ready{}, nil
	}

	ready := Ready{Link: pfd[0].Revents != 0}
	if input != nil {
		ready.Input = pfd[1].Revents != 0
	}
	return ready, nil
}

// Close closes the socket.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return unix.Close(c.fd)
}

// Address returns the remote device address.
func (c *Conn) Address() Address {
	return c.address
}

func (c *Conn) handle() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return -1, ErrClosed
	}
	return c.fd, nil
}
