package myflix

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrOperationFailed is matched by every error the client returns
	ErrOperationFailed = errors.New("something went wrong, please try again")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid myflix configuration")
	// ErrMissingUsername indicates an empty username
	ErrMissingUsername = errors.New("username is required")
	// ErrMissingPassword indicates an empty password
	ErrMissingPassword = errors.New("password is required")
)

// ErrorKind classifies the cause of a failed operation
type ErrorKind int

const (
	// KindUnknown is an unclassified failure
	KindUnknown ErrorKind = iota
	// KindNetwork is a transport failure
	KindNetwork
	// KindAuth is a missing, expired or rejected token
	KindAuth
	// KindApplication is a server-reported failure such as validation
	KindApplication
	// KindLocal is a failure building the request or reading the response
	KindLocal
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindApplication:
		return "application"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// APIError represents a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("myflix API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// OperationError is the normalized error every client operation returns.
// Its message is generic; Kind and Err keep the detail for logging.
type OperationError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	return ErrOperationFailed.Error()
}

// Unwrap returns the underlying cause
func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrOperationFailed) true for every OperationError
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

// ServerMessage returns the server-reported message, if any
func (e *OperationError) ServerMessage() string {
	var apiErr *APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func classify(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsUnauthorized() {
			return KindAuth
		}
		return KindApplication
	}
	var transportErr *transportError
	if errors.As(err, &transportErr) {
		return KindNetwork
	}
	return KindLocal
}

// transportError wraps failures of the HTTP round trip itself
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.err)
}

func (e *transportError) Unwrap() error {
	return e.err
}
