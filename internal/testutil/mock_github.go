// Package testutil provides testing utilities for gistview.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockGitHubResponse defines the behavior for a mock GitHub endpoint response.
type MockGitHubResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockGitHub is a configurable mock GitHub REST API for testing.
type MockGitHub struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount   int
	LastRequest    *http.Request
	RequestsByPath map[string]int
}

// NewMockGitHub creates a new mock GitHub server.
func NewMockGitHub() *MockGitHub {
	mock := &MockGitHub{
		handlers:       make(map[string]func(w http.ResponseWriter, r *http.Request)),
		RequestsByPath: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.RequestsByPath[r.URL.Path]++
		mock.LastRequest = r.Clone(r.Context())
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockGitHub) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGitHub) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockGitHub) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequest = nil
	m.RequestsByPath = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockGitHub) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockGitHub) SetResponse(path string, resp MockGitHubResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetUserGists configures the gist listing of a user.
func (m *MockGitHub) SetUserGists(user string, resp MockGitHubResponse) {
	m.SetResponse(GistsPath(user), resp)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockGitHub) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastRequest returns a copy of the most recent request.
func (m *MockGitHub) GetLastRequest() *http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequest
}

// GistsPath returns the upstream path listing a user's gists.
func GistsPath(user string) string {
	return fmt.Sprintf("/users/%s/gists", user)
}

// defaultHandler pages through a fixed set of twelve gists for any user,
// honoring page and per_page like GitHub does.
func (m *MockGitHub) defaultHandler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = 30
	}

	const total = 12
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	gists := make([]map[string]any, 0, perPage)
	for i := start; i < end; i++ {
		gists = append(gists, map[string]any{
			"id":          fmt.Sprintf("gist%d", i+1),
			"description": fmt.Sprintf("Gist number %d", i+1),
			"html_url":    fmt.Sprintf("https://gist.github.com/gist%d", i+1),
			"public":      true,
		})
	}

	body, _ := json.Marshal(gists)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-RateLimit-Limit", "60")
	w.Header().Set("X-RateLimit-Remaining", "59")
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// NewGistsResponse creates a 200 OK response with the given JSON body.
func NewGistsResponse(body string) MockGitHubResponse {
	return MockGitHubResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type":          "application/json; charset=utf-8",
			"X-RateLimit-Limit":     "60",
			"X-RateLimit-Remaining": "58",
		},
	}
}

// NewEmptyGistsResponse creates a 200 OK response with an empty list.
func NewEmptyGistsResponse() MockGitHubResponse {
	return NewGistsResponse("[]")
}

// NewNotFoundResponse creates GitHub's 404 error object.
func NewNotFoundResponse() MockGitHubResponse {
	return MockGitHubResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitedResponse creates a 403 rate limit exceeded response.
func NewRateLimitedResponse() MockGitHubResponse {
	return MockGitHubResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"message":"API rate limit exceeded"}`,
		Headers: map[string]string{
			"Content-Type":          "application/json; charset=utf-8",
			"X-RateLimit-Limit":     "60",
			"X-RateLimit-Remaining": "0",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockGitHubResponse {
	return MockGitHubResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message":"Server Error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 OK response whose body is not JSON.
func NewMalformedResponse() MockGitHubResponse {
	return MockGitHubResponse{
		StatusCode: http.StatusOK,
		Body:       `[{"id": "broken"`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
