package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by the APIError returned when GitHub answers 404.
var ErrNotFound = errors.New("github resource not found")

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures (DNS, refused connection, timeout).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a completed exchange whose body was not the expected JSON.
	ErrorClassDecode ErrorClass = "decode"
)

// APIError represents a failed GitHub API call with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("github %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNetwork reports whether err is a transport-level failure, as opposed to
// an HTTP exchange that completed with an error status.
func IsNetwork(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorClass == ErrorClassNetwork
}
