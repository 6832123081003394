// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so that outer layers can decide how to report it
// without inspecting messages.
type ErrorKind int

const (
	// KindInternal is any failure that is not one of the explicit client-facing kinds.
	KindInternal ErrorKind = iota

	// KindValidation means the caller supplied input that does not satisfy its constraints.
	KindValidation

	// KindMissingIdentity means the request carried no caller identity at all.
	KindMissingIdentity

	// KindUnauthenticated means the caller identity is not known to the user directory.
	KindUnauthenticated

	// KindNotFound covers both missing and soft-deleted resources.
	KindNotFound

	// KindForbidden means the resource exists but belongs to someone else.
	KindForbidden
)

// String returns a stable lowercase name for the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMissingIdentity:
		return "missing_identity"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the tagged error type returned by the service layer.
// Message is safe to show to API clients; Err carries optional internal detail.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a kind sentinel (an *Error without a message)
// of the same kind. This lets callers write errors.Is(err, domain.ErrNotFound)
// for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for use with errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrMissingIdentity = &Error{Kind: KindMissingIdentity}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrForbidden       = &Error{Kind: KindForbidden}
)

// ErrInvalidStatus is returned when a status string is not one of the known task statuses.
var ErrInvalidStatus = errors.New("invalid task status")

// NewError creates a tagged error with a client-safe message.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFoundf creates a KindNotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf creates a KindForbidden error with a formatted message.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
