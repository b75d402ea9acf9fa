package utils

import (
	"errors"
	"net/http"
	"strings"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

// StatusMessage returns the fixed client-facing text for a status code.
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return strings.ToLower(http.StatusText(status))
}

// HTTPError is an error that knows which status it should be rendered with.
// Cause is kept for logs and never sent to the client.
type HTTPError struct {
	Status  int
	Message string
	Cause   error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

func newHTTPError(status int, cause error) *HTTPError {
	return &HTTPError{Status: status, Message: StatusMessage(status), Cause: cause}
}

func BadRequest(cause error) *HTTPError { return newHTTPError(http.StatusBadRequest, cause) }

func Unauthorized(cause error) *HTTPError { return newHTTPError(http.StatusUnauthorized, cause) }

func NotFound() *HTTPError { return newHTTPError(http.StatusNotFound, nil) }

func MethodNotAllowed() *HTTPError { return newHTTPError(http.StatusMethodNotAllowed, nil) }

func Unprocessable() *HTTPError { return newHTTPError(http.StatusUnprocessableEntity, nil) }

func InternalServerError(cause error) *HTTPError {
	return newHTTPError(http.StatusInternalServerError, cause)
}

// AsHTTPError maps any error to an HTTPError, defaulting to 500.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return InternalServerError(err)
}
