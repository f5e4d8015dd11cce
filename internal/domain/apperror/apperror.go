// Package apperror defines the failures a resolver can surface to clients.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNEXPECTED"
	}
}

// Status maps the kind onto its HTTP-equivalent code.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Violation is one failed input rule.
type Violation struct {
	Message string `json:"message"`
}

// Error is a tagged failure. Err keeps the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Data    []Violation
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

// Extensions is picked up by the GraphQL executor and copied onto the query error.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":   e.Kind.String(),
		"status": e.Status(),
	}
	if len(e.Data) > 0 {
		ext["data"] = e.Data
	}
	return ext
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Invalid(msg string, violations []Violation) *Error {
	return &Error{Kind: KindValidation, Message: msg, Data: violations}
}

// Unexpected hides cause from clients behind a generic message.
func Unexpected(cause error) *Error {
	return &Error{Kind: KindUnexpected, Message: "An error occurred.", Err: cause}
}

// From returns err as *Error, wrapping anything else as Unexpected.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Unexpected(err)
}

// KindOf reports the kind of err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	return From(err).Kind
}
