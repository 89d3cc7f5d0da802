package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrMalformed = errors.New("malformed payload")
)

// Generic user-facing fallbacks.
const (
	MsgUnexpected    = "An unexpected error occurred"
	MsgTransport     = "Unable to reach the pricing service"
	MsgConvertFailed = "Conversion failed"
	MsgHistoryFailed = "Failed to load historical data"
)

// ValidationError is raised locally for bad user input and never reaches the
// network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// LoadError reports a failed catalog fetch.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "load items: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// RequestError is a non-2xx backend answer. Detail is the server's
// human-readable message and may be empty.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

// TransportError wraps network failures and timeouts.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage renders err as toast text. fallback is used for request errors
// without a server detail.
func UserMessage(err error, fallback string) string {
	var (
		verr *ValidationError
		lerr *LoadError
		rerr *RequestError
		terr *TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &lerr):
		return "Failed to load items: " + UserMessage(lerr.Err, "Failed to fetch items")
	case errors.As(err, &rerr):
		if rerr.Detail != "" {
			return rerr.Detail
		}
		return fallback
	case errors.As(err, &terr), errors.Is(err, context.DeadlineExceeded):
		return MsgTransport
	case errors.Is(err, ErrMalformed):
		return fallback
	default:
		return MsgUnexpected
	}
}

// UnhandledError is a failure nobody anticipated, typically a recovered
// panic. It is always shown as MsgUnexpected.
type UnhandledError struct {
	Value any
}

func (e *UnhandledError) Error() string { return fmt.Sprintf("unhandled: %v", e.Value) }
