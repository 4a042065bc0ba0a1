// Package transport provides the Bluetooth LE link to an SP630E controller.
//
// The controller is reached over an L2CAP SOCK_SEQPACKET socket bound to the
// ATT fixed channel, driven directly with golang.org/x/sys/unix. Each Read
// returns exactly one ATT PDU.
package transport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common errors
var (
	ErrClosed         = errors.New("transport: link closed")
	ErrConnectTimeout = errors.New("transport: connect timed out")
	ErrUnsupported    = errors.New("transport: bluetooth sockets are only supported on linux")
)

// MaxConnectWait bounds a single connection attempt.
const MaxConnectWait = 10 * time.Second

// Ready reports which sources became readable during Wait.
type Ready struct {
	Link  bool
	Input bool
}

// LineSource is an interactive input that can be polled alongside the link.
type LineSource interface {
	Fd() int
	ReadLines() ([]string, error)
}

// Address is a Bluetooth device address in display order.
type Address [6]byte

// ParseAddress parses "C0:00:00:00:12:34" (':' or '-' separated).
func ParseAddress(s string) (Address, error) {
	var addr Address
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '-' })
	if len(parts) != len(addr) {
		return addr, fmt.Errorf("transport: invalid bluetooth address %q", s)
	}
	for i, p := range parts {
		if len(p) != 2 {
			return addr, fmt.Errorf("transport: invalid bluetooth address %q", s)
		}
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return addr, fmt.Errorf("transport: invalid bluetooth address %q: %w", s, err)
		}
		addr[i] = byte(v)
	}
	return addr, nil
}

// String formats the address as upper-case colon separated hex.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsAddress reports whether s parses as a Bluetooth address.
func IsAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// connectWait returns how long one attempt may take given the overall
// deadline.
func connectWait(deadline time.Time, now time.Time) time.Duration {
	remaining := deadline.Sub(now)
	if deadline.IsZero() || remaining > MaxConnectWait {
		return MaxConnectWait
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}
