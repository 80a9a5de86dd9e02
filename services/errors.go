package services

import (
	"errors"
	"fmt"

	"github.com/HSouheill/shop_backend/repositories"
)

// Kind classifies caller-facing failures
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure caused by the caller's input. Anything that is not an
// *Error is treated as internal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// KindOf returns the kind of err, or 0 when err is internal
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// notFoundOr maps a repository miss to a not-found error with msg
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound(msg)
	}
	return err
}

// duplicateOr maps a unique index violation to a bad request with msg
func duplicateOr(err error, msg string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return BadRequest("%s", msg)
	}
	return err
}
