package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zgpcy/internode-usage-exporter/internal/collector"
	"github.com/zgpcy/internode-usage-exporter/internal/config"
	"github.com/zgpcy/internode-usage-exporter/internal/internode"
	"github.com/zgpcy/internode-usage-exporter/internal/logger"
	"github.com/zgpcy/internode-usage-exporter/internal/putval"
)

// testLogger creates a logger for testing (error level to suppress test output)
func testLogger() *logger.Logger {
	return logger.New("error")
}

// mockFetcher is a mock usage source for testing
type mockFetcher struct {
	mu       sync.Mutex
	snapshot internode.UsageSnapshot
	err      error
}

func (m *mockFetcher) Fetch(ctx context.Context) (internode.UsageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, m.err
}

func testConfig() *config.Config {
	return &config.Config{
		DataDir:     "/tmp",
		Hostname:    "localhost",
		Interval:    3600,
		HTTPPort:    8080,
		APITimeout:  10,
		MaxAttempts: 5,
		BackoffStep: 60,
	}
}

func newTestServer(fetcher *mockFetcher) (*Server, *collector.UsageCollector) {
	cfg := testConfig()
	emitter := putval.NewEmitter(&bytes.Buffer{}, cfg.Hostname, cfg.Interval)
	coll := collector.NewUsageCollector(fetcher, emitter, cfg, testLogger())
	return NewServer(cfg, coll, testLogger()), coll
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(&mockFetcher{})

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.server == nil {
		t.Error("srv.server should not be nil")
	}
	if srv.collector == nil {
		t.Error("srv.collector should not be nil")
	}
	if srv.server.Addr != ":8080" {
		t.Errorf("server address: got %v, want :8080", srv.server.Addr)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(&mockFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "healthy") {
		t.Errorf("health body = %q, want healthy status", string(body))
	}
}

func TestHandleReady_NotReady(t *testing.T) {
	srv, _ := newTestServer(&mockFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	srv.handleReady(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status before first cycle = %d, want 503", w.Code)
	}
}

func TestHandleReady_Ready(t *testing.T) {
	fetcher := &mockFetcher{snapshot: internode.UsageSnapshot{
		Quota:    500000000000,
		Used:     123456789,
		Rollover: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
	}}
	srv, coll := newTestServer(fetcher)

	coll.RunCycle(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	srv.handleReady(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("ready status after a successful cycle = %d, want 200", w.Code)
	}
}

func TestHandleIndex(t *testing.T) {
	fetcher := &mockFetcher{snapshot: internode.UsageSnapshot{
		Quota:    500000000000,
		Used:     123456789,
		Rollover: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
	}}
	srv, coll := newTestServer(fetcher)

	coll.RunCycle(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleIndex(w, req)

	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	page := string(body)
	if !strings.Contains(page, "Ready") {
		t.Error("index page should show readiness")
	}
	if !strings.Contains(page, "500000000000") {
		t.Error("index page should show the quota")
	}
	if !strings.Contains(page, "localhost") {
		t.Error("index page should show the host identifier")
	}
}

func TestHandleIndex_NotReady(t *testing.T) {
	srv, _ := newTestServer(&mockFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleIndex(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("index status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not Ready") {
		t.Error("index page should show Not Ready before the first cycle")
	}
}

func TestServerTimeouts(t *testing.T) {
	srv, _ := newTestServer(&mockFetcher{})

	if srv.server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", srv.server.ReadTimeout, DefaultReadTimeout)
	}
	if srv.server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", srv.server.WriteTimeout, DefaultWriteTimeout)
	}
	if srv.server.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("IdleTimeout = %v, want %v", srv.server.IdleTimeout, DefaultIdleTimeout)
	}
}
