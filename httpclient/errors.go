package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for client construction and response handling.
var (
	// ErrMissingBaseURL indicates the client was configured without a base URL.
	ErrMissingBaseURL = errors.New("httpclient: base URL is required")

	// ErrInvalidBaseURL indicates a base URL could not be parsed or lacks a
	// scheme or host.
	ErrInvalidBaseURL = errors.New("httpclient: invalid base URL")

	// ErrEmptyBody indicates a JSON decode was attempted on an empty response
	// body.
	ErrEmptyBody = errors.New("httpclient: empty response body")
)

// maxErrorBody bounds how much of an error response body Error() renders.
// The full body stays available on the StatusError for structured parsing.
const maxErrorBody = 512

// StatusError is returned for responses with status >= 400. It carries the
// full response body so callers can decode structured error payloads from
// supplier and warehouse APIs.
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the HTTP status line, e.g. "503 Service Unavailable".
	Status string

	// Body is the complete response body.
	Body []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("httpclient: unexpected status %s", e.Status)
	}
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Sprintf("httpclient: unexpected status %s: %s", e.Status, body)
}

// IsStatus reports whether err is (or wraps) a StatusError with the given
// status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// NonRetryableStatus reports whether err is a client error that must not be
// retried: any 4xx status except 408 (request timeout) and 429 (too many
// requests). 5xx statuses and transport errors are retryable.
func NonRetryableStatus(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return se.StatusCode >= 400 && se.StatusCode < 500
}
