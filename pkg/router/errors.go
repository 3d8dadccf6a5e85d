package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx response from the backend. The message is
// taken from the response body's "error" or "message" field when present,
// else a generic fallback; the status code is preserved alongside.
type HTTPError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// newHTTPError builds an HTTPError from a response status and body.
func newHTTPError(status int, body []byte) *HTTPError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = "request failed"
	}

	var errorData map[string]interface{}
	if err := json.Unmarshal(body, &errorData); err == nil {
		if m, ok := errorData["error"].(string); ok && m != "" {
			msg = m
		} else if m, ok := errorData["message"].(string); ok && m != "" {
			msg = m
		}
	}

	return &HTTPError{Status: status, Message: msg}
}

// IsUnauthorized reports whether err is an HTTPError with status 401.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// HTTPError.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
