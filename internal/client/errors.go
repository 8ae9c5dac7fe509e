package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation
type Kind string

const (
	// NetworkFailure means the transport could not reach the API
	NetworkFailure Kind = "network_failure"
	// NotFound means the API returned 404 for a specific entity
	NotFound Kind = "not_found"
	// ValidationFailure means the API (or a local precondition check)
	// rejected the request as invalid
	ValidationFailure Kind = "validation_failure"
	// ServerFailure means the API returned a 5xx response
	ServerFailure Kind = "server_failure"
)

// ErrStockExceeded is wrapped by the APIError returned when a sale is
// rejected locally because a requested quantity exceeds the last-known
// stock for its product and size. No HTTP request is issued in that case.
var ErrStockExceeded = errors.New("requested quantity exceeds known stock")

// APIError is the tagged failure result surfaced by every operation. The
// layer performs no recovery and no retry; callers decide what to do with
// it, typically by presenting the message and re-invoking on user action.
type APIError struct {
	Kind    Kind
	Status  int // HTTP status, 0 for local and transport failures
	Message string
	cause   error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// ErrorKind extracts the Kind of err, or "" when err is not an APIError
func ErrorKind(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NotFound failure
func IsNotFound(err error) bool {
	return ErrorKind(err) == NotFound
}

// IsValidation reports whether err is a ValidationFailure
func IsValidation(err error) bool {
	return ErrorKind(err) == ValidationFailure
}

func kindForStatus(status int) Kind {
	switch {
	case status == 404:
		return NotFound
	case status >= 400 && status < 500:
		return ValidationFailure
	default:
		return ServerFailure
	}
}
