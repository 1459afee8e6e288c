package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ErrorCategory groups transfer failures by their origin.
type ErrorCategory string

const (
	CategoryNetwork  ErrorCategory = "NETWORK"  // Connection issues
	CategoryProtocol ErrorCategory = "PROTOCOL" // HTTP status failures
	CategoryIO       ErrorCategory = "IO"       // File system issues
	CategoryContext  ErrorCategory = "CONTEXT"  // Cancellation or timeout
)

var (
	// ErrSessionActive is returned when a download is requested while another
	// session is already in flight on the same shell.
	ErrSessionActive = errors.New("a download is already in progress")

	ErrTimeout          = errors.New("operation timed out")
	ErrResourceNotFound = errors.New("resource not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrServerProblem    = errors.New("server error")
	ErrClientRequest    = errors.New("client error")
)

// TransferError is a categorized failure from the transfer path. The origin
// locator is recorded for logging only; user-facing text comes from
// UserMessage and never carries it.
type TransferError struct {
	Err        error
	Category   ErrorCategory
	Resource   string
	StatusCode int
	Retryable  bool
	Timestamp  time.Time
}

func (e *TransferError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] %s (status: %d): %v", e.Category, e.Resource, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Resource, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// UserMessage is the generic text surfaced to the user. Deliberately vague:
// the origin locator and internal error text must not leak.
func (e *TransferError) UserMessage() string {
	return "The download could not be completed. Please try again."
}

func newNetworkError(err error, resource string, retryable bool) *TransferError {
	return &TransferError{
		Err:       err,
		Category:  CategoryNetwork,
		Resource:  resource,
		Retryable: retryable,
		Timestamp: time.Now(),
	}
}

func newIOError(err error, resource string) *TransferError {
	return &TransferError{
		Err:       err,
		Category:  CategoryIO,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

func newContextError(err error, resource string) *TransferError {
	return &TransferError{
		Err:       err,
		Category:  CategoryContext,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

func newHTTPError(resource string, statusCode int) *TransferError {
	var (
		err       error
		retryable bool
	)

	switch {
	case statusCode == http.StatusNotFound:
		err = ErrResourceNotFound
	case statusCode == http.StatusForbidden, statusCode == http.StatusUnauthorized:
		err = ErrAccessDenied
	case statusCode == http.StatusTooManyRequests:
		err = ErrClientRequest
		retryable = true
	case statusCode >= http.StatusInternalServerError:
		err = ErrServerProblem
		retryable = statusCode != http.StatusNotImplemented
	default:
		err = ErrClientRequest
	}

	return &TransferError{
		Err:        err,
		Category:   CategoryProtocol,
		Resource:   resource,
		StatusCode: statusCode,
		Retryable:  retryable,
		Timestamp:  time.Now(),
	}
}

// classifyError wraps an arbitrary fetch error into a TransferError.
func classifyError(err error, resource string) *TransferError {
	switch {
	case errors.Is(err, context.Canceled):
		return newContextError(err, resource)
	case errors.Is(err, context.DeadlineExceeded):
		return newContextError(ErrTimeout, resource)
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return newNetworkError(err, resource, true)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return newNetworkError(err, resource, true)
	}

	return newNetworkError(err, resource, false)
}

// IsRetryable reports whether a retry is recommended for the error.
func IsRetryable(err error) bool {
	var terr *TransferError
	return errors.As(err, &terr) && terr.Retryable
}

// StatusCode extracts the HTTP status code from an error if available.
func StatusCode(err error) (int, bool) {
	var terr *TransferError
	if errors.As(err, &terr) && terr.StatusCode != 0 {
		return terr.StatusCode, true
	}

	return 0, false
}
