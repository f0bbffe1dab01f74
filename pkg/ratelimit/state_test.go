package ratelimit

import (
	"strings"
	"testing"
	"time"
)

func TestState_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		maxAge   time.Duration
		expected bool
	}{
		{
			name:     "fresh state",
			state:    State{LastUpdate: time.Now()},
			maxAge:   5 * time.Minute,
			expected: false,
		},
		{
			name:     "stale state",
			state:    State{LastUpdate: time.Now().Add(-10 * time.Minute)},
			maxAge:   5 * time.Minute,
			expected: true,
		},
		{
			name:     "just under max age",
			state:    State{LastUpdate: time.Now().Add(-4 * time.Minute)},
			maxAge:   5 * time.Minute,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.state.IsStale(tt.maxAge)
			if result != tt.expected {
				t.Errorf("IsStale() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestState_IsLow(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{
			name:     "unknown state is never low",
			state:    State{},
			expected: false,
		},
		{
			name:     "well above threshold",
			state:    State{Remaining: 4000, LastUpdate: time.Now()},
			expected: false,
		},
		{
			name:     "at threshold",
			state:    State{Remaining: RemainingThresholdWarning, LastUpdate: time.Now()},
			expected: false,
		},
		{
			name:     "just below threshold",
			state:    State{Remaining: RemainingThresholdWarning - 1, LastUpdate: time.Now()},
			expected: true,
		},
		{
			name:     "exhausted",
			state:    State{Remaining: 0, LastUpdate: time.Now()},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsLow(); got != tt.expected {
				t.Errorf("IsLow() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_TimeUntilReset(t *testing.T) {
	tests := []struct {
		name     string
		resetAt  time.Time
		wantZero bool
	}{
		{
			name:     "reset in future",
			resetAt:  time.Now().Add(30 * time.Minute),
			wantZero: false,
		},
		{
			name:     "reset in past",
			resetAt:  time.Now().Add(-1 * time.Minute),
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := State{ResetAt: tt.resetAt}
			got := state.TimeUntilReset()
			if tt.wantZero && got != 0 {
				t.Errorf("TimeUntilReset() = %v, want 0", got)
			}
			if !tt.wantZero && got <= 0 {
				t.Errorf("TimeUntilReset() = %v, want > 0", got)
			}
		})
	}
}

func TestState_Report(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		state      State
		wantPrefix string
		wantLow    bool
	}{
		{
			name:       "nothing observed",
			state:      State{},
			wantPrefix: "unknown",
		},
		{
			name: "healthy",
			state: State{
				Limit: 60, Remaining: 59,
				ResetAt: now.Add(30 * time.Minute), LastUpdate: now,
			},
			wantPrefix: "59/60 remaining, resets in 30m",
		},
		{
			name: "low",
			state: State{
				Limit: 60, Remaining: 3,
				ResetAt: now.Add(10 * time.Minute), LastUpdate: now,
			},
			wantPrefix: "3/60 remaining",
			wantLow:    true,
		},
		{
			name: "stale observation",
			state: State{
				Limit: 60, Remaining: 0,
				ResetAt: now.Add(-time.Hour), LastUpdate: now.Add(-2 * time.Hour),
			},
			wantPrefix: "stale (last seen 2h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.Report()
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("Report() = %q, want prefix %q", got, tt.wantPrefix)
			}
			if strings.HasSuffix(got, "(low)") != tt.wantLow {
				t.Errorf("Report() = %q, low marker want %v", got, tt.wantLow)
			}
		})
	}
}
