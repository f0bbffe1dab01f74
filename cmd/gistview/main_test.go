package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/gistview/internal/testutil"
	"github.com/Sternrassler/gistview/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.GitHubBaseURL = baseURL
	cfg.UpstreamTimeout = 2 * time.Second
	return cfg
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	body, _ := io.ReadAll(w.Result().Body)
	return w.Code, string(body)
}

func TestNewApp_Memory(t *testing.T) {
	mock := testutil.NewMockGitHub()
	defer mock.Close()

	a, err := newApp(testConfig(mock.URL()))
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	if code, body := get(t, a.handler, "/health"); code != http.StatusOK || body != "OK" {
		t.Errorf("health = %d %q, want 200 OK", code, body)
	}

	for i := 0; i < 3; i++ {
		if code, _ := get(t, a.handler, "/octocat"); code != http.StatusOK {
			t.Fatalf("listing = %d, want 200", code)
		}
	}

	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("upstream requests = %d, want 1", got)
	}

	code, body := get(t, a.handler, "/ready")
	if code != http.StatusOK {
		t.Errorf("ready = %d, want 200", code)
	}
	if !strings.Contains(body, "github rate limit: 59/60 remaining") {
		t.Errorf("ready body %q does not report the rate limit seen on the listing", body)
	}
}

func TestNewApp_SendsToken(t *testing.T) {
	mock := testutil.NewMockGitHub()
	defer mock.Close()

	cfg := testConfig(mock.URL())
	cfg.GitHubAPIKey = "secret"

	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	get(t, a.handler, "/octocat")

	last := mock.GetLastRequest()
	if last == nil {
		t.Fatal("no upstream request recorded")
	}
	if got := last.Header.Get("Authorization"); got != "token secret" {
		t.Errorf("Authorization = %q, want %q", got, "token secret")
	}
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := testConfig("https://api.github.com")
	cfg.CacheBackend = "redis"
	cfg.RedisURL = "127.0.0.1:1"

	if _, err := newApp(cfg); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

func setupTestRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return host + ":" + port.Port()
}

func TestNewApp_Redis(t *testing.T) {
	redisAddr := setupTestRedis(t)

	mock := testutil.NewMockGitHub()
	defer mock.Close()

	cfg := testConfig(mock.URL())
	cfg.CacheBackend = "redis"
	cfg.RedisURL = redisAddr

	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	if code, _ := get(t, a.handler, "/ready"); code != http.StatusOK {
		t.Errorf("ready = %d, want 200", code)
	}

	get(t, a.handler, "/octocat?page=2")
	code, _ := get(t, a.handler, "/octocat?page=2")
	if code != http.StatusOK {
		t.Errorf("listing = %d, want 200", code)
	}

	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("upstream requests = %d, want 1", got)
	}
}
