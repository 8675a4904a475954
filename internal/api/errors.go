package api

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is shown when the server rejects a request without a
// structured error field.
const DefaultErrorMessage = "request failed"

// Error is a structured rejection from the comments API: a non-2xx status
// with the server's error message, surfaced to the user verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// IsRejection reports whether err is a structured server rejection, as
// opposed to a transport-level failure.
func IsRejection(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

// UserMessage extracts the message to show the user for a failed call:
// the server's own wording for rejections, a generic network notice otherwise.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "network error, please try again"
}
