// Package config loads the gistview configuration once at startup.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults
//  2. an optional TOML file
//  3. an optional .env file
//  4. the process environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Sternrassler/gistview/pkg/logging"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// MissingTokenWarning is logged at startup when no GitHub API key is set.
const MissingTokenWarning = "GitHub API key secret not found, maybe subject to rate limiting"

// Config holds the process-wide settings. It is populated once by Load and
// passed down explicitly; nothing reads the environment after startup.
type Config struct {
	// Port the HTTP server listens on.
	Port string `toml:"port" validate:"required,numeric"`

	// GitHubBaseURL is the GitHub REST API root.
	GitHubBaseURL string `toml:"github_base_url" validate:"required,url"`

	// GitHubAPIKey is optional; without it GitHub applies the anonymous rate limit.
	GitHubAPIKey string `toml:"github_api_key"`

	UserAgent string `toml:"user_agent" validate:"required"`

	// UpstreamTimeout bounds every GitHub request.
	UpstreamTimeout time.Duration `toml:"upstream_timeout" validate:"gt=0"`

	// CacheTTL is how long a rendered page is served from cache.
	CacheTTL time.Duration `toml:"cache_ttl" validate:"gt=0"`

	// CacheBackend selects the response cache store: "memory" or "redis".
	CacheBackend string `toml:"cache_backend" validate:"oneof=memory redis"`

	// RedisURL is the Redis address, used when CacheBackend is "redis".
	RedisURL string `toml:"redis_url" validate:"required_if=CacheBackend redis"`

	// DefaultUser is where "/" redirects.
	DefaultUser string `toml:"default_user" validate:"required"`

	LogLevel  string `toml:"log_level" validate:"oneof=debug info warn warning error"`
	LogPretty bool   `toml:"log_pretty"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" validate:"gt=0"`
}

// Options selects the optional configuration files.
type Options struct {
	// File is a TOML config file. Empty means none; a named file must exist.
	File string

	// EnvFile is a dotenv file. A missing file is ignored.
	EnvFile string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:            "8080",
		GitHubBaseURL:   "https://api.github.com",
		UserAgent:       "gistview/0.1.0",
		UpstreamTimeout: 10 * time.Second,
		CacheTTL:        5 * time.Minute,
		CacheBackend:    "memory",
		RedisURL:        "localhost:6379",
		DefaultUser:     "octocat",
		LogLevel:        "info",
		ShutdownTimeout: 15 * time.Second,
	}
}

// Load builds and validates the configuration.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		if _, err := toml.DecodeFile(opts.File, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", opts.File, err)
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read env file %s: %w", opts.EnvFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PORT":            &c.Port,
		"GITHUB_BASE_URL": &c.GitHubBaseURL,
		"GITHUB_API_KEY":  &c.GitHubAPIKey,
		"USER_AGENT":      &c.UserAgent,
		"CACHE_BACKEND":   &c.CacheBackend,
		"REDIS_URL":       &c.RedisURL,
		"DEFAULT_USER":    &c.DefaultUser,
		"LOG_LEVEL":       &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"UPSTREAM_TIMEOUT": &c.UpstreamTimeout,
		"CACHE_TTL":        &c.CacheTTL,
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("LOG_PRETTY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse LOG_PRETTY: %w", err)
		}
		c.LogPretty = b
	}

	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// HasToken reports whether GitHub requests will be authenticated.
func (c *Config) HasToken() bool {
	return c.GitHubAPIKey != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Logging maps the log settings onto a logging.Config.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.LogLevel)
	cfg.Pretty = c.LogPretty
	return cfg
}
