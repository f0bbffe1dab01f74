package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	upstreamRateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gist_upstream_ratelimit_remaining",
		Help: "Requests remaining in the current GitHub rate limit window",
	})

	upstreamRateLimitLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gist_upstream_ratelimit_limit",
		Help: "Size of the current GitHub rate limit window",
	})

	upstreamRateLimitLowTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gist_upstream_ratelimit_low_total",
		Help: "Total number of upstream responses observed below the rate limit warning threshold",
	})
)

// Tracker records the GitHub rate limit state from upstream response headers.
// It is safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	state  State
	logger zerolog.Logger
}

// NewTracker creates a new rate limit tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
	}
}

// State returns a copy of the last observed rate limit state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// UpdateFromHeaders parses GitHub rate limit headers and updates the state.
// Responses without the headers leave the state untouched.
func (t *Tracker) UpdateFromHeaders(headers http.Header) error {
	remainStr := headers.Get(HeaderRemaining)
	if remainStr == "" {
		return nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse %s header: %w", HeaderRemaining, err)
	}

	state := State{
		Remaining:  remain,
		LastUpdate: time.Now(),
	}

	if limitStr := headers.Get(HeaderLimit); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("parse %s header: %w", HeaderLimit, err)
		}
		state.Limit = limit
	}

	if resetStr := headers.Get(HeaderReset); resetStr != "" {
		resetUnix, err := strconv.ParseInt(resetStr, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s header: %w", HeaderReset, err)
		}
		state.ResetAt = time.Unix(resetUnix, 0)
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	upstreamRateLimitRemaining.Set(float64(state.Remaining))
	upstreamRateLimitLimit.Set(float64(state.Limit))

	if state.IsLow() {
		upstreamRateLimitLowTotal.Inc()
		t.logger.Warn().
			Int("ratelimit_remaining", state.Remaining).
			Int("ratelimit_limit", state.Limit).
			Time("reset_at", state.ResetAt).
			Msg("GitHub rate limit running low")
		return nil
	}

	t.logger.Debug().
		Int("ratelimit_remaining", state.Remaining).
		Int("ratelimit_limit", state.Limit).
		Time("reset_at", state.ResetAt).
		Msg("GitHub rate limit state updated")

	return nil
}
