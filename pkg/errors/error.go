// Package errors carries coded errors through the engine.
//
// Codes are grouped by range: 1-99 general, 100-199 caller input (see
// IsInputError), 200-299 data stores, 400-499 versioning, 600-699 engine
// invariants. Callers match on codes, not messages:
//
//	if errors.HasCode(err, errors.ErrCodeEmptyPeriod) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// New creates an Error without a cause.
func New(code ErrorCode, message string) *Error {
	return newError(code, message, nil)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return newError(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return newError(code, message, cause)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return newError(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so a bare New(code, "") can be
// used as an errors.Is target.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}

	return other.Code == e.Code
}

// Is is errors.Is, re-exported so callers need one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need one errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the first *Error in err's chain, or
// ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether err's outermost coded error has code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
