// Package apperrors holds the error kinds the API layer translates into
// HTTP responses. Handlers and repositories return them; only Handler
// turns them into status codes.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("unauthorized")
	ErrUpload     = errors.New("upload failed")
	ErrInternal   = errors.New("internal error")
)

// Error carries a client-safe message, the kind sentinel and an optional cause.
type Error struct {
	kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause so errors.Is works for either.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.kind, e.Err}
	}
	return []error{e.kind}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{kind: kind, Message: message, Err: cause}
}

func Validation(message string) *Error { return newError(ErrValidation, message, nil) }

func NotFound(message string) *Error { return newError(ErrNotFound, message, nil) }

func Conflict(message string, cause error) *Error { return newError(ErrConflict, message, cause) }

func Auth(message string) *Error { return newError(ErrAuth, message, nil) }

func Upload(message string, cause error) *Error { return newError(ErrUpload, message, cause) }

func Internal(message string, cause error) *Error { return newError(ErrInternal, message, cause) }

// StatusCode maps an error to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrUpload):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be shown to API clients.
func PublicMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	var ae *Error
	if errors.As(err, &ae) && !errors.Is(ae.kind, ErrInternal) {
		return ae.Message
	}
	return "Internal server error"
}
