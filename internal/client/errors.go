package client

import (
	"fmt"
	"strings"
)

// maxErrorBody bounds the response excerpt kept in an APIError
const maxErrorBody = 512

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("policy API returned %s for %s", e.Status, e.URL)
	}
	return fmt.Sprintf("policy API returned %s for %s: %s", e.Status, e.URL, body)
}

// TransportError is returned when no complete response could be obtained:
// DNS failure, refused connection, reset, or an unbounded call cancelled
// by its caller.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a successful response body is not valid CSV.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
