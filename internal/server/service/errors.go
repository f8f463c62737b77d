package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so transport layers can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidOrExpired
	KindConfiguration
)

// Error is the failure type returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal when err is not a
// service error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func validationError(message string) *Error {
	return newError(KindValidation, message)
}

func unauthorizedError(message string) *Error {
	return newError(KindUnauthorized, message)
}

func forbiddenError(message string) *Error {
	return newError(KindForbidden, message)
}

func notFoundError(message string) *Error {
	return newError(KindNotFound, message)
}

func conflictError(message string) *Error {
	return newError(KindConflict, message)
}

func invalidOrExpiredError(message string) *Error {
	return newError(KindInvalidOrExpired, message)
}

func internalError(message string, err error) *Error {
	return wrapError(KindInternal, message, err)
}
