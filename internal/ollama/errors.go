package ollama

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is against a *TransportError.
var (
	// ErrUnreachable indicates the request never got an HTTP response.
	ErrUnreachable = errors.New("ollama server unreachable")

	// ErrModelNotFound indicates the service does not have the requested model.
	ErrModelNotFound = errors.New("model not found")
)

// TransportError is returned when a request fails before a usable response
// body is available: the connection failed or the status was not 2xx.
type TransportError struct {
	Op         string // "generate", "stream", "tags"
	URL        string
	StatusCode int    // 0 when no response was received
	Message    string // the service's "error" field, or the raw body text
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ollama %s: could not reach %s: %v", e.Op, e.URL, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("ollama %s: API error (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ollama %s: API error (status %d)", e.Op, e.StatusCode)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// statusError builds a TransportError from a non-2xx response body.
func statusError(op, url string, status int, message string) *TransportError {
	te := &TransportError{Op: op, URL: url, StatusCode: status, Message: message}
	if strings.Contains(message, "model") && strings.Contains(message, "not found") {
		te.Err = ErrModelNotFound
	}
	return te
}

// DecodeError describes a stream fragment that was not valid JSON. It is
// logged and the fragment skipped; it never terminates a stream.
type DecodeError struct {
	Fragment string
	Err      error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding JSON chunk %q: %v", e.Fragment, e.Err)
}

// Unwrap returns the underlying JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
