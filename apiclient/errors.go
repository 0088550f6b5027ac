package apiclient

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the session could not be renewed and the user has to
// log in again.
var ErrUnauthorized = errors.New("unauthorized: session expired")

const defaultErrorMessage = "Request failed"

// RequestError is returned for any non-2xx response that did not end the
// session.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by a RequestError, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}
