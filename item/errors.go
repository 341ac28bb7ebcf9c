package item

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for the transport boundary.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindIO         Kind = "io"
)

// Error is the tagged error returned by the gate and the services.
type Error struct {
	Kind    Kind
	Field   string // set for KindValidation when a specific attribute failed
	Message string // public message, safe to return to clients
	Cause   error
}

// ErrNotFound matches any not found Error through errors.Is.
var ErrNotFound = &Error{Kind: KindNotFound, Message: "Item not found"}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewValidationError reports an invalid payload. An empty field means the
// payload as a whole was rejected.
func NewValidationError(field string, cause error) *Error {
	msg := "Invalid item"
	if field != "" {
		msg = fmt.Sprintf("Invalid item '%s'", field)
	}
	return &Error{Kind: KindValidation, Field: field, Message: msg, Cause: cause}
}

// NewNotFoundError reports a missing item.
func NewNotFoundError(id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: ErrNotFound.Message,
		Cause:   fmt.Errorf("item %d", id),
	}
}

// NewIOError wraps a storage failure. The underlying message is passed through.
func NewIOError(cause error) *Error {
	var existing *Error
	if errors.As(cause, &existing) {
		return existing
	}
	return &Error{Kind: KindIO, Message: cause.Error(), Cause: cause}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
