package apperrors

import (
	"errors"
	"fmt"
)

// Kind categorizes ledger failures so handlers can map them to HTTP statuses
// and batch callers can tell retryable data problems from missing records.
type Kind string

const (
	NotFound        Kind = "NOT_FOUND"
	InvalidArgument Kind = "INVALID_ARGUMENT"
	InvalidState    Kind = "INVALID_STATE"
	Conflict        Kind = "CONFLICT"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or "" if err is not a ledger error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsNotFound(err error) bool        { return KindOf(err) == NotFound }
func IsInvalidArgument(err error) bool { return KindOf(err) == InvalidArgument }
func IsInvalidState(err error) bool    { return KindOf(err) == InvalidState }
func IsConflict(err error) bool        { return KindOf(err) == Conflict }
