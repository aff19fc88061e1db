package services

import (
	"HealthFirst/repositories"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies service failures so transports can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a failure whose message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func InvalidArgument(message string) error { return newError(KindInvalidArgument, message) }
func NotFound(message string) error        { return newError(KindNotFound, message) }
func Unauthorized(message string) error    { return newError(KindUnauthorized, message) }
func Forbidden(message string) error       { return newError(KindForbidden, message) }
func Unavailable(message string) error     { return newError(KindUnavailable, message) }

// KindOf reports the kind of err. Field validation failures and unique
// violations count as invalid arguments; anything unrecognised is internal.
func KindOf(err error) Kind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return KindInvalidArgument
	}
	var fieldErr validation.Error
	if errors.As(err, &fieldErr) {
		return KindInvalidArgument
	}
	if errors.Is(err, repositories.ErrDuplicate) {
		return KindInvalidArgument
	}
	return KindInternal
}
