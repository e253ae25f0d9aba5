// Package ers provides lightweight error constants, aggregation, and
// classification helpers used throughout rivulet. It has no
// dependencies outside of the standard library and is a companion to
// the erc package, which provides the thread-safe collector.
package ers

import (
	"context"
	"errors"
	"io"
)

// Error is a type alias for building/declaring sentinel errors as
// constants. The empty string is treated as equivalent to a nil error
// for the purposes of Is().
type Error string

// New constructs an error object backed by the Error type.
func New(str string) error { return Error(str) }

// Error implements the error interface without allocation.
func (e Error) Error() string { return string(e) }

// Is supports errors.Is comparisons against other Error constants
// without reflection.
func (e Error) Is(err error) bool {
	switch {
	case err == nil:
		return e == ""
	default:
		target, ok := err.(Error)
		return ok && target == e
	}
}

// Is returns true when the error (or an error it wraps) matches any
// one of the target errors.
func Is(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsOk returns true when the error is nil. It exists for clarity at
// call sites where a boolean reads better than a nil comparison.
func IsOk(err error) bool { return err == nil }

// IsError returns true when the error is non-nil; the inverse of IsOk.
func IsError(err error) bool { return err != nil }

// IsExpiredContext checks if an error was caused by a context that was
// canceled or whose deadline was exceeded.
func IsExpiredContext(err error) bool { return Is(err, context.Canceled, context.DeadlineExceeded) }

// IsTerminating returns true if the error is one of the sentinel
// errors used to signal that iteration or processing has come to an
// orderly end (io.EOF, or an explicit abort).
func IsTerminating(err error) bool { return Is(err, io.EOF, ErrCurrentOpAbort) }
