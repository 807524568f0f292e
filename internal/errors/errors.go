// Package errors provides custom error types for the analytics API client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Sentinel errors for common cases
var (
	ErrInvalidResponse = errors.New("invalid response format")
	ErrBackendFailure  = errors.New("backend reported failure")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrInvalidData     = errors.New("invalid data")
)

// APIError represents a request the backend answered with a failure,
// either a non-2xx status or a JSON body with success=false
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// Is allows comparison with sentinel errors
func (e *APIError) Is(target error) bool {
	if target == ErrBackendFailure {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches the (truncated) response body for diagnostics
func (e *APIError) WithBody(body []byte) *APIError {
	const limit = 4096
	if len(body) > limit {
		body = body[:limit]
	}
	e.Body = string(body)
	return e
}

// NetworkError represents a transport-level failure before any response arrived
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError for a specific endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// Is matches context deadline errors so errors.Is works in both directions
func (e *TimeoutError) Is(target error) bool {
	if target == context.DeadlineExceeded {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message  string
	Endpoint string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, endpoint string) *ParseError {
	return &ParseError{Message: message, Endpoint: endpoint}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// GetHTTPStatus extracts the HTTP status code from an error chain, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from an error chain, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the diagnostic body from an error chain, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// IsAPIError reports whether the backend answered with a failure
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsNetworkError reports whether the error is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether the request ran out of time
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsCancelled reports whether the request was cancelled by its caller
func IsCancelled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsParseError reports whether the response could not be decoded
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// connectionFailureHints match transports that flatten the error chain into text
var connectionFailureHints = []string{
	"connection refused",
	"no such host",
	"connection reset",
	"network is unreachable",
	"no route to host",
}

// IsConnectionError reports whether the server could not be reached at all
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range connectionFailureHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
