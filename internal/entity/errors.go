package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "unauthorized"
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation_failed"
	KindConflict          ErrorKind = "conflict"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindInternal          ErrorKind = "internal"
)

// Error is the failure every operation reports to its caller. Fields carries
// per-field messages for validation failures and conflicts.
type Error struct {
	Kind    ErrorKind           `json:"kind"`
	Message string              `json:"error"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches on kind only, so errors.Is(err, ErrConflict) holds for any
// conflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "you do not have permission to perform this action"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "already exists"}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential, Message: "invalid confirmation code"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "internal error"}
)

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Fields: map[string][]string{field: {message}}}
}

func ValidationFailed(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func FieldError(field, message string) *Error {
	return ValidationFailed(map[string][]string{field: {message}})
}

// KindOf returns the kind of err, KindInternal for anything that is not an
// *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
