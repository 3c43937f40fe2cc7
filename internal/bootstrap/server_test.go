package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/skeleton/internal/config"
	"github.com/creamcroissant/skeleton/internal/support/logging"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) count(msg string) int {
	return strings.Count(b.String(), `"msg":"`+msg+`"`)
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Host:            "127.0.0.1",
			ShutdownTimeout: time.Second,
		},
		Validation: config.ValidationConfig{Body: true, Query: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, opts ...ServerOption) (*Server, *lockedBuffer) {
	t.Helper()
	logs := &lockedBuffer{}
	logger := logging.New(logging.Options{Writer: logs})
	opts = append([]ServerOption{WithListenAddr("127.0.0.1:0")}, opts...)
	srv := NewServer(cfg, logger, opts...)
	t.Cleanup(func() {
		_ = srv.Close(context.Background())
	})
	return srv, logs
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, logs := newTestServer(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, time.Second)
	}()

	require.Eventually(t, func() bool { return srv.BoundAddr() != "" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.BoundAddr() + "/api/v1/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"APP_HEALTH_QUERIED"`)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.Equal(t, 1, logs.count("server listening"))
	assert.Equal(t, 1, logs.count("gracefully stopping the server"))
	assert.Equal(t, 1, logs.count("stopping the server"))
	assert.Contains(t, logs.String(), srv.ID())
}

func TestRunIdleCancel(t *testing.T) {
	srv, logs := newTestServer(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, 0)
	}()
	require.Eventually(t, func() bool { return srv.BoundAddr() != "" }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, 1, logs.count("stopping the server"))

	// the listener is gone
	_, err := net.DialTimeout("tcp", srv.BoundAddr(), 200*time.Millisecond)
	assert.Error(t, err)
}

func TestRunListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { taken.Close() })

	srv, logs := newTestServer(t, testConfig(), WithListenAddr(taken.Addr().String()))

	err = Run(context.Background(), srv, time.Second)
	assert.Error(t, err)
	assert.Zero(t, logs.count("server listening"))
}

func TestCloseRunsHooksOnce(t *testing.T) {
	srv, logs := newTestServer(t, testConfig())

	var order []string
	srv.OnClose(func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	srv.OnClose(nil)
	srv.OnClose(func(context.Context) error {
		order = append(order, "second")
		return errors.New("flush failed")
	})

	err := srv.Close(context.Background())
	assert.ErrorContains(t, err, "flush failed")

	again := srv.Close(context.Background())
	assert.Equal(t, err, again)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, logs.count("stopping the server"))
}

func TestHandlerAppliesValidationConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Validation.Query = false
	srv, _ := newTestServer(t, cfg)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health?debug=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", strings.NewReader(`{"x":1}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must NOT have additional properties")
}

func TestHandlerUsesClock(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	srv, _ := newTestServer(t, testConfig(), WithClock(func() time.Time { return fixed }))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.JSONEq(t, `{"code":"APP_HEALTH_QUERIED","success":true,"payload":{"time":1700000000000}}`, rec.Body.String())
}

func TestMetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics = config.MetricsConfig{Enabled: true, Namespace: "skeleton", Subsystem: "http", Token: "t0k"}
	reg := prometheus.NewRegistry()
	srv, _ := newTestServer(t, cfg, WithRegistry(reg))

	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer t0k")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skeleton_http_requests_total")
}

func TestNewServerDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Host = ""
	srv := NewServer(cfg, nil)

	assert.Equal(t, ":3000", srv.Addr())
	assert.Empty(t, srv.BoundAddr())
	assert.NotEmpty(t, srv.ID())
	assert.Panics(t, func() { NewServer(nil, nil) })
}
