package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types shared by the services and the HTTP layer
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// AppError carries the HTTP status and the client facing message for an error
// raised by a service. The wrapped error, if any, is kept for logging only.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New returns an AppError with the given status and message
func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// NotFound returns a 404 AppError wrapping ErrNotFound
func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// BadRequest returns a 400 AppError wrapping ErrInvalidInput
func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Err: ErrInvalidInput}
}

// StatusOf returns the HTTP status carried by err, or 500 for anything that is
// not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
