// Package ratelimit tracks the GitHub REST API rate limit as reported by the
// X-RateLimit-* response headers. It is purely observational: requests are
// never delayed or blocked, the state only feeds metrics, logs and the
// readiness report.
package ratelimit

import (
	"fmt"
	"time"
)

// GitHub rate limit response headers.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// Thresholds for rate limit reporting.
const (
	// RemainingThresholdWarning logs a warning when fewer requests than this
	// are left in the current window. Unauthenticated clients get 60 per hour.
	RemainingThresholdWarning = 10

	// StaleAfter is how long an observation stays meaningful. GitHub's
	// primary rate limit window is one hour.
	StaleAfter = time.Hour
)

// State represents the last observed GitHub rate limit window.
type State struct {
	// Limit is the window size from X-RateLimit-Limit.
	Limit int `json:"limit"`

	// Remaining is the number of requests left from X-RateLimit-Remaining.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets, from X-RateLimit-Reset (unix seconds).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was recorded.
	LastUpdate time.Time `json:"last_update"`
}

// IsKnown returns true once at least one response carried rate limit headers.
func (s State) IsKnown() bool {
	return !s.LastUpdate.IsZero()
}

// IsLow returns true if the remaining budget is below the warning threshold.
func (s State) IsLow() bool {
	return s.IsKnown() && s.Remaining < RemainingThresholdWarning
}

// IsStale returns true if the state is older than maxAge.
func (s State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// TimeUntilReset returns the duration until the window resets.
// Returns 0 if the reset time has already passed.
func (s State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// Report summarizes the state for the readiness endpoint.
func (s State) Report() string {
	switch {
	case !s.IsKnown():
		return "unknown"
	case s.IsStale(StaleAfter):
		return fmt.Sprintf("stale (last seen %s ago)", time.Since(s.LastUpdate).Round(time.Second))
	}

	report := fmt.Sprintf("%d/%d remaining, resets in %s",
		s.Remaining, s.Limit, s.TimeUntilReset().Round(time.Second))
	if s.IsLow() {
		report += " (low)"
	}
	return report
}
