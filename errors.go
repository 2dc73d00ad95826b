package filesig

import (
	"errors"
	"fmt"
)

// Common identification errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("argument out of range")
	ErrFormatMismatch  = errors.New("formats are not the same format")
	ErrSourceTooLarge  = errors.New("source exceeds buffer limit")
)

// ArgumentError records an error and the operation and argument that caused it
type ArgumentError struct {
	Op  string
	Arg string
	Err error
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Arg, e.Err)
}

// Unwrap returns the underlying error
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func invalidArgument(op, arg string) error {
	return &ArgumentError{Op: op, Arg: arg, Err: ErrInvalidArgument}
}

func outOfRange(op, arg string, value int64) error {
	return &ArgumentError{Op: op, Arg: arg, Err: fmt.Errorf("%w: %d is negative", ErrOutOfRange, value)}
}

// IsInvalidArgument reports whether an error was caused by a missing or
// malformed argument
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsOutOfRange reports whether an error was caused by a negative offset or
// length passed to a read operation
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
