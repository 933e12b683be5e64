package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Request is a normalized outbound request. Paths are resolved against the
// client's base URL, so the same Request can be replayed against fallback
// endpoints.
type Request struct {
	// Method is the HTTP method. Default: GET.
	Method string

	// Path is joined onto the client's base URL.
	Path string

	// Query holds URL query parameters.
	Query url.Values

	// Headers are merged over the client's default headers; per-request
	// values win.
	Headers http.Header

	// Body is the request payload. []byte, json.RawMessage, and io.Reader
	// pass through unchanged; any other non-nil value is JSON-encoded with
	// Content-Type application/json.
	Body any
}

// Response is a normalized response. BaseURL and FallbackIndex record which
// endpoint served the request, so callers can see failover happening.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the fully read response body.
	Body []byte

	// BaseURL is the base URL that served this response.
	BaseURL string

	// FallbackIndex is resilience.PrimaryIndex when the primary base URL
	// served the response, else the 0-based index into FallbackBaseURLs.
	FallbackIndex int
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("httpclient: decode response body: %w", err)
	}
	return nil
}

// encodeBody converts a request body into replayable bytes plus the content
// type to send, if the encoding implies one. Reader bodies are drained up
// front so retries and fallback candidates can resend them.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case json.RawMessage:
		return b, "application/json", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: read request body: %w", err)
		}
		return data, "", nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: encode request body: %w", err)
		}
		return data, "application/json", nil
	}
}

// bodyReader wraps encoded body bytes for a single attempt.
func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	return bytes.NewReader(body)
}
