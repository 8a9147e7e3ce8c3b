// Package apperr is the error taxonomy shared by services and handlers.
package apperr

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindConflict
	KindNotFound
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Error carries a user-facing message. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind and message, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// Guard failures never disclose detail.
const unauthorized = "Unauthorized"

// Unauthenticated with no message renders as the generic "Unauthorized".
func Unauthenticated(msg ...string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: pick(msg)}
}

// Forbidden with no message renders as the generic "Unauthorized".
func Forbidden(msg ...string) *Error {
	return &Error{Kind: KindForbidden, Message: pick(msg)}
}

func pick(msg []string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return unauthorized
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Unavailable(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message, or "" for internal errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
