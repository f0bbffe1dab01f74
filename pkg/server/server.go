// Package server assembles the gistview HTTP surface: the gist listing
// route behind the response cache, the root redirect and the operational
// endpoints.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/gistview/pkg/cache"
	"github.com/Sternrassler/gistview/pkg/metrics"
	"github.com/Sternrassler/gistview/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// DefaultUser is the redirect target of "/" when none is configured.
const DefaultUser = "octocat"

// readyTimeout bounds the cache ping behind /ready.
const readyTimeout = 2 * time.Second

// RateLimitSource reports the last observed GitHub rate limit.
type RateLimitSource interface {
	RateLimit() ratelimit.State
}

// Options configures NewRouter.
type Options struct {
	// DefaultUser is where "/" redirects.
	DefaultUser string

	// Gists serves GET /{user}.
	Gists http.Handler

	// Cache wraps the listing route when set and backs /ready.
	Cache *cache.Manager

	// RateLimit, when set, adds the GitHub rate limit to the /ready report.
	RateLimit RateLimitSource

	Logger zerolog.Logger
}

// NewRouter builds the chi router.
func NewRouter(opts Options) chi.Router {
	if opts.Gists == nil {
		panic("server: gists handler is required")
	}
	if opts.DefaultUser == "" {
		opts.DefaultUser = DefaultUser
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/", redirectHandler(opts.DefaultUser))
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(opts.Cache, opts.RateLimit))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	listing := opts.Gists
	if opts.Cache != nil {
		listing = cache.Middleware(opts.Cache, opts.Logger)(listing)
	}
	r.Method(http.MethodGet, "/{user}", listing)

	return r
}

// redirectHandler sends "/" to the default user's first page. The query is
// not forwarded.
func redirectHandler(user string) http.HandlerFunc {
	target := "/" + url.PathEscape(user)
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// readyHandler answers 503 when the cache store is unreachable. Otherwise it
// answers "OK" followed by the cache backend and the GitHub rate limit.
// A low or exhausted rate limit is reported but does not fail readiness.
func readyHandler(m *cache.Manager, rl RateLimitSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report strings.Builder
		report.WriteString("OK\n")

		if m != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()

			if err := m.Ping(ctx); err != nil {
				http.Error(w, fmt.Sprintf("cache %s not ready: %v", m.Backend(), err), http.StatusServiceUnavailable)
				return
			}
			fmt.Fprintf(&report, "cache: %s\n", m.Backend())
		}

		if rl != nil {
			fmt.Fprintf(&report, "github rate limit: %s\n", rl.RateLimit().Report())
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, report.String())
	}
}
