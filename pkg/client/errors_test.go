package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		expected string
	}{
		{
			name: "error with wrapped error",
			apiError: &APIError{
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
				Err:        ErrNotFound,
			},
			expected: "github client error (status 404): 404 Not Found: github resource not found",
		},
		{
			name: "error without wrapped error",
			apiError: &APIError{
				StatusCode: 502,
				ErrorClass: ErrorClassServer,
				Message:    "502 Bad Gateway",
			},
			expected: "github server error (status 502): 502 Bad Gateway",
		},
		{
			name: "network error",
			apiError: &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			expected: "github network error (status 0): request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apiError.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	apiErr := &APIError{
		ErrorClass: ErrorClassNetwork,
		Err:        cause,
	}

	if !errors.Is(apiErr, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	wrapped := fmt.Errorf("list gists: %w", apiErr)
	var target *APIError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find the APIError through fmt.Errorf wrapping")
	}
	if target.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %q, want %q", target.ErrorClass, ErrorClassNetwork)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "upstream 404",
			err:      &APIError{StatusCode: 404, ErrorClass: ErrorClassClient, Err: ErrNotFound},
			expected: true,
		},
		{
			name:     "wrapped upstream 404",
			err:      fmt.Errorf("outer: %w", &APIError{StatusCode: 404, Err: ErrNotFound}),
			expected: true,
		},
		{
			name:     "upstream 403",
			err:      &APIError{StatusCode: 403, ErrorClass: ErrorClassClient},
			expected: false,
		},
		{
			name:     "nil",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.expected {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsNetwork(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "network class",
			err:      &APIError{ErrorClass: ErrorClassNetwork},
			expected: true,
		},
		{
			name:     "server class",
			err:      &APIError{StatusCode: 500, ErrorClass: ErrorClassServer},
			expected: false,
		},
		{
			name:     "decode class",
			err:      &APIError{StatusCode: 200, ErrorClass: ErrorClassDecode},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetwork(tt.err); got != tt.expected {
				t.Errorf("IsNetwork() = %v, want %v", got, tt.expected)
			}
		})
	}
}
