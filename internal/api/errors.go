package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType categorises a backend communication failure.
type ErrorType int

const (
	// ErrTypeNetwork indicates a transport-level failure (connection
	// refused, unreachable, reset).
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request timed out.
	ErrTypeTimeout
	// ErrTypeHTTP indicates a non-2xx response from the backend.
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body.
	ErrTypeParse
	// ErrTypeBackend indicates the backend answered but reported a
	// failure in its payload (e.g. {"error": "..."}).
	ErrTypeBackend
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeBackend:
		return "Backend Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError is the error type returned by Client operations.
type APIError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
	Retryable  bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *APIError) Unwrap() error {
	return e.Err
}

// newNetworkError classifies a transport error. Timeouts and refused
// connections are retryable; most everything else at this level is too.
func newNetworkError(message string, err error) *APIError {
	if os.IsTimeout(err) {
		return &APIError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &APIError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &APIError{
			Type:      ErrTypeNetwork,
			Message:   "backend refused connection",
			Err:       err,
			Retryable: true,
		}
	}

	return &APIError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// newHTTPError creates an error for a non-2xx status. Server errors are
// retryable, client errors are not.
func newHTTPError(statusCode int, message string) *APIError {
	return &APIError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

func newParseError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Err: err}
}

func newBackendError(message string) *APIError {
	return &APIError{Type: ErrTypeBackend, Message: message}
}

// IsRetryable reports whether the operation that produced err may be
// retried safely.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// ShortMessage returns a concise user-facing message for inline status
// lines and toasts.
func ShortMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Backend not responding (timeout)"
	case ErrTypeNetwork:
		return "Connection failed"
	case ErrTypeHTTP:
		return fmt.Sprintf("Backend error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Invalid response from backend"
	default:
		return apiErr.Message
	}
}
