package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a formula error code.
type ErrorCode string

// Error codes reported by the parser, evaluator and sampler.
const (
	// F0xxx: Formula/syntax errors
	ErrUnknownToken    ErrorCode = "F0101"
	ErrUnknownFunction ErrorCode = "F0102"
	ErrEmptyExpression ErrorCode = "F0103"
	ErrInvalidNumber   ErrorCode = "F0104"
	ErrMalformedCall   ErrorCode = "F0201"
	ErrDepthExceeded   ErrorCode = "F0202"

	// T0xxx: Type errors
	ErrArityMismatch ErrorCode = "T0410"

	// D0xxx: Sampling errors
	ErrInvalidRange ErrorCode = "D0101"

	// U0xxx: Binding errors
	ErrUndefinedOperation ErrorCode = "U1002"
)

// Error represents a structured formula error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new formula error.
// A negative position means the error is not tied to a location.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, types.ErrCode(types.ErrArityMismatch)) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// ErrCode returns a sentinel error matching any *Error with the given code.
func ErrCode(code ErrorCode) error {
	return &Error{Code: code, Position: -1}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a formula error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCompileError reports whether err was produced while compiling a formula,
// as opposed to sampling it.
func IsCompileError(err error) bool {
	switch CodeOf(err) {
	case "", ErrInvalidRange:
		return false
	default:
		return true
	}
}
