// Package domainerrors carries a stable failure code from stores and
// services up to the HTTP layer, which alone decides the status code.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a business-level failure category.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnavailable marks a dependency that is unconfigured or unreachable,
	// such as the verification provider.
	CodeUnavailable Code = "unavailable"
)

// Error is a coded failure. Message is safe to show to API callers; Err is
// the underlying cause and is only logged.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err, &Error{Code: c})
// finds a coded error anywhere in the chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches msg to err. A code already present in err wins over code, so
// a store's not_found survives a service's generic internal wrap.
func Wrap(err error, code Code, msg string) error {
	if isCoded(err) {
		code = CodeOf(err)
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return isCoded(err) && CodeOf(err) == code
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func isCoded(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
