package command

import (
	"errors"
	"fmt"
)

// ErrorType represents why a command line did not produce a request
type ErrorType int

const (
	// ErrTypeUnknownCommand indicates no descriptor has the name
	ErrTypeUnknownCommand ErrorType = iota
	// ErrTypeArgumentCount indicates the name exists but not with that many arguments
	ErrTypeArgumentCount
	// ErrTypeBadArgument indicates an argument is not a number in 0..255
	ErrTypeBadArgument
	// ErrTypeGuard indicates a monotonic command would move the level the wrong way
	ErrTypeGuard
	// ErrTypePayloadTooLong indicates the encoded payload does not fit in one frame
	ErrTypePayloadTooLong
	// ErrTypeEmpty indicates a blank line
	ErrTypeEmpty
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeUnknownCommand:
		return "Unknown Command"
	case ErrTypeArgumentCount:
		return "Argument Count"
	case ErrTypeBadArgument:
		return "Bad Argument"
	case ErrTypeGuard:
		return "Guard"
	case ErrTypePayloadTooLong:
		return "Payload Too Long"
	case ErrTypeEmpty:
		return "Empty"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned when a command cannot be encoded. No frame is produced.
type Error struct {
	Type    ErrorType // Category of error
	Command string    // Command name as typed
	Message string    // Human-readable detail
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Command != "" {
		msg = fmt.Sprintf("%s: %s", e.Command, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(typ ErrorType, name, format string, args ...any) *Error {
	return &Error{Type: typ, Command: name, Message: fmt.Sprintf(format, args...)}
}

func typeOf(err error) (ErrorType, bool) {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Type, true
	}
	return 0, false
}

// IsUnknownCommand checks if err means the command name or arity did not match
func IsUnknownCommand(err error) bool {
	typ, ok := typeOf(err)
	return ok && (typ == ErrTypeUnknownCommand || typ == ErrTypeArgumentCount)
}

// IsBadArgument checks if err is a numeric parsing failure
func IsBadArgument(err error) bool {
	typ, ok := typeOf(err)
	return ok && typ == ErrTypeBadArgument
}

// IsGuard checks if err is a guard rejection
func IsGuard(err error) bool {
	typ, ok := typeOf(err)
	return ok && typ == ErrTypeGuard
}

// IsEmpty checks if err is a blank line
func IsEmpty(err error) bool {
	typ, ok := typeOf(err)
	return ok && typ == ErrTypeEmpty
}
