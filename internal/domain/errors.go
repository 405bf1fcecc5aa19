package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these in *Error so handlers can tell kinds apart while the
// message stays the one shown to the caller.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrExpired      = errors.New("expired")
	ErrNotifyFailed = errors.New("notification failed")
)

// Error is a user-facing failure of a known kind.
type Error struct {
	Kind    error
	Message string
	Err     error // optional underlying cause
}

// NewError builds an *Error of the given kind with a fixed message.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf builds an *Error of the given kind with a formatted message.
// A %w verb also records the wrapped error as the cause.
func Errorf(kind error, format string, args ...interface{}) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Message: err.Error(), Err: errors.Unwrap(err)}
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Wrap attaches the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}
