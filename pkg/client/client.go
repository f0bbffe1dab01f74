// Package client provides the GitHub gist listing client with bounded
// timeouts, error classification and rate limit tracking.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/gistview/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream operations.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gist_upstream_requests_total",
		Help: "Total GitHub requests by outcome",
	}, []string{"status"})

	upstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gist_upstream_request_duration_seconds",
		Help:    "GitHub request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gist_upstream_errors_total",
		Help: "Total GitHub errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Client lists public gists through the GitHub REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *ratelimit.Tracker
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the GitHub API; point it at GitHub Enterprise if needed.
	BaseURL string

	// Token is sent as "Authorization: token <Token>" when non-empty.
	// Unauthenticated requests are subject to a much lower rate limit.
	Token string

	// UserAgent header (GitHub rejects requests without one).
	UserAgent string

	// Timeout bounds each upstream request, including reading the body.
	Timeout time.Duration

	// RateLimiter receives the X-RateLimit-* headers of every response.
	// A tracker is created when nil.
	RateLimiter *ratelimit.Tracker
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(token, userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Token:     token,
		UserAgent: userAgent,
		Timeout:   10 * time.Second,
	}
}

// New creates a new GitHub client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	logger := log.With().Str("component", "github-client").Logger()

	tracker := cfg.RateLimiter
	if tracker == nil {
		tracker = ratelimit.NewTracker(logger)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: tracker,
		config:      cfg,
		logger:      logger,
	}, nil
}

// ListGists fetches one page of a user's public gists.
//
// A completed 2xx exchange returns the decoded list, which may be empty.
// Everything else is an *APIError: ErrorClassNetwork when no response was
// received, ErrorClassClient/ErrorClassServer for error statuses (404 also
// wraps ErrNotFound), ErrorClassDecode when the body is not a JSON array.
func (c *Client) ListGists(ctx context.Context, user string, page, perPage int) (*ListResult, error) {
	endpoint := "/users/" + url.PathEscape(user) + "/gists"

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if c.config.Token != "" {
		req.Header.Set("Authorization", "token "+c.config.Token)
	}

	c.logger.Debug().
		Str("user", user).
		Int("page", page).
		Int("per_page", perPage).
		Bool("authenticated", c.config.Token != "").
		Msg("Requesting gists from GitHub")

	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := c.classifyError(nil, err)
		upstreamErrorsTotal.WithLabelValues(string(errClass)).Inc()
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &APIError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if err := c.rateLimiter.UpdateFromHeaders(resp.Header); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)

		errClass := c.classifyError(resp, nil)
		upstreamErrorsTotal.WithLabelValues(string(errClass)).Inc()

		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
		if resp.StatusCode == http.StatusNotFound {
			apiErr.Err = ErrNotFound
		}
		return nil, apiErr
	}

	gists, err := decodeGists(resp.Body)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "decode gist list",
			Err:        err,
		}
	}

	return &ListResult{
		StatusCode: resp.StatusCode,
		Gists:      gists,
	}, nil
}

// decodeGists decodes a body holding exactly one JSON array of gists.
// Anything after the array other than whitespace is an error.
func decodeGists(r io.Reader) ([]Gist, error) {
	dec := json.NewDecoder(r)

	var gists []Gist
	if err := dec.Decode(&gists); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after gist list")
		}
		return nil, fmt.Errorf("trailing data: %w", err)
	}

	return gists, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		c.logger.Debug().Str("class", string(ErrorClassNetwork)).Msg("Error classified")
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Debug().Str("class", string(ErrorClassClient)).Msg("Error classified")
		return ErrorClassClient
	case resp.StatusCode >= 500:
		c.logger.Debug().Str("class", string(ErrorClassServer)).Msg("Error classified")
		return ErrorClassServer
	default:
		// 1xx/3xx that the transport did not resolve on its own.
		return ErrorClassClient
	}
}

// RateLimit returns the last observed GitHub rate limit state.
func (c *Client) RateLimit() ratelimit.State {
	return c.rateLimiter.State()
}
