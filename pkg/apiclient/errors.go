package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies client-side failures. Auth failures are the only
// kind that triggers token recovery; network and server failures never do.
type ErrorKind string

const (
	ErrorKindAuth       ErrorKind = "auth"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindServer     ErrorKind = "server"
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindTimeout    ErrorKind = "timeout"
)

// APIError is the typed error surfaced by every client operation
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error
func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient and worth retrying
// by the caller, as opposed to requiring re-authentication or a code fix
func (e *APIError) Retryable() bool {
	return e.Kind == ErrorKindNetwork || e.Kind == ErrorKindTimeout || e.Kind == ErrorKindServer
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == ErrorKindAuth
}

// errorFromResponse maps a non-2xx response to a typed error, pulling the
// message from the standard {"error": "..."} body when present
func errorFromResponse(statusCode int, body []byte) *APIError {
	message := http.StatusText(statusCode)
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		message = parsed.Error
	}

	kind := ErrorKindServer
	switch {
	case statusCode == http.StatusUnauthorized:
		kind = ErrorKindAuth
	case statusCode == http.StatusNotFound:
		kind = ErrorKindNotFound
	case statusCode >= 400 && statusCode < 500:
		kind = ErrorKindValidation
	}

	return &APIError{Kind: kind, StatusCode: statusCode, Message: message}
}

// errorFromTransport maps a transport-level failure, keeping timeouts
// distinguishable from other network errors
func errorFromTransport(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Kind: ErrorKindTimeout, Message: "request timed out", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &APIError{Kind: ErrorKindNetwork, Message: "request cancelled", Err: err}
	}
	return &APIError{Kind: ErrorKindNetwork, Message: "request failed", Err: err}
}
