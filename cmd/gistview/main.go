package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/gistview/pkg/cache"
	"github.com/Sternrassler/gistview/pkg/client"
	"github.com/Sternrassler/gistview/pkg/config"
	"github.com/Sternrassler/gistview/pkg/gists"
	"github.com/Sternrassler/gistview/pkg/logging"
	"github.com/Sternrassler/gistview/pkg/ratelimit"
	"github.com/Sternrassler/gistview/pkg/server"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configFile := flag.String("config", "", "path to a TOML config file")
	envFile := flag.String("env-file", ".env", "path to a dotenv file (ignored when missing)")
	flag.Parse()

	cfg, err := config.Load(config.Options{File: *configFile, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging())
	logger := logging.NewLogger("main")

	if !cfg.HasToken() {
		logger.Warn().Msg(config.MissingTokenWarning)
	}

	app, err := newApp(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("cache_backend", cfg.CacheBackend).
			Dur("cache_ttl", cfg.CacheTTL).
			Str("default_user", cfg.DefaultUser).
			Str("user_agent", cfg.UserAgent).
			Msg("Starting gistview server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}

// app is the wired request pipeline plus the resources it holds.
type app struct {
	handler http.Handler
	closers []func() error
}

// Close releases the app's resources.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("Failed to release resource")
		}
	}
}

// newApp builds the cache store, GitHub client, listing handler and router.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{}

	store, err := newStore(cfg, a)
	if err != nil {
		return nil, err
	}
	manager := cache.NewManager(store, cfg.CacheTTL)

	ghClient, err := client.New(client.Config{
		BaseURL:     cfg.GitHubBaseURL,
		Token:       cfg.GitHubAPIKey,
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.UpstreamTimeout,
		RateLimiter: ratelimit.NewTracker(logging.NewLogger("ratelimit")),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create github client: %w", err)
	}

	renderer, err := gists.NewRenderer()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.handler = server.NewRouter(server.Options{
		DefaultUser: cfg.DefaultUser,
		Gists:       gists.NewHandler(ghClient, renderer, logging.NewLogger("gists")),
		Cache:       manager,
		RateLimit:   ghClient,
		Logger:      logging.NewLogger("http"),
	})

	return a, nil
}

func newStore(cfg *config.Config, a *app) (cache.Store, error) {
	logger := logging.NewLogger("cache")

	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisURL, err)
		}

		a.closers = append(a.closers, rdb.Close)
		logBackend(logger, "redis", cfg)
		return cache.NewRedisStore(rdb, ""), nil
	default:
		logBackend(logger, "memory", cfg)
		return cache.NewMemoryStore(cache.DefaultCleanupInterval), nil
	}
}

func logBackend(logger zerolog.Logger, backend string, cfg *config.Config) {
	ev := logger.Info().Str("backend", backend).Dur("ttl", cfg.CacheTTL)
	if backend == "redis" {
		ev = ev.Str("redis_url", cfg.RedisURL)
	}
	ev.Msg("Response cache ready")
}
