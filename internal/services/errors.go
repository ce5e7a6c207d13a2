package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the domain services. Test with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicate         = errors.New("duplicate")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMismatch          = errors.New("mismatch")
)

// Error carries a client-facing message for one of the error kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
