// 文件路径: internal/bootstrap/server.go
// 模块说明: 组装 HTTP 服务：Router（含严格输入校验、指标）、*http.Server、实例 ID 与关闭钩子。
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/creamcroissant/skeleton/internal/api"
	"github.com/creamcroissant/skeleton/internal/api/middleware"
	"github.com/creamcroissant/skeleton/internal/config"
)

// CloseHook runs once while the server closes, after in-flight requests have drained.
type CloseHook func(ctx context.Context) error

// ServerOption tweaks NewServer.
type ServerOption func(*serverOptions)

type serverOptions struct {
	addr     string
	registry *prometheus.Registry
	now      func() time.Time
}

// WithListenAddr overrides the host:port taken from config.
func WithListenAddr(addr string) ServerOption {
	return func(o *serverOptions) {
		o.addr = addr
	}
}

// WithRegistry collects request metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) ServerOption {
	return func(o *serverOptions) {
		o.registry = reg
	}
}

// WithClock replaces the clock handed to the handlers.
func WithClock(now func() time.Time) ServerOption {
	return func(o *serverOptions) {
		o.now = now
	}
}

// Server is one running instance of the API.
type Server struct {
	id         string
	logger     *slog.Logger
	handler    http.Handler
	httpServer *http.Server

	mu        sync.Mutex
	hooks     []CloseHook
	boundAddr string

	closeOnce sync.Once
	closeErr  error
}

// NewServer builds the router and the http.Server around it. It does not listen.
func NewServer(cfg *config.Config, logger *slog.Logger, opts ...ServerOption) *Server {
	if cfg == nil {
		panic("bootstrap: nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	options := serverOptions{addr: cfg.HTTP.Addr()}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	id := uuid.NewString()
	logger = logger.With("instance", id)

	routerOpts := []api.RouterOption{
		api.WithStrictInput(middleware.StrictInputConfig{
			Body:  cfg.Validation.Body,
			Query: cfg.Validation.Query,
		}),
		api.WithBodyLimit(cfg.HTTP.BodyLimit),
		api.WithClock(options.now),
	}
	if cfg.Metrics.Enabled {
		reg := options.registry
		if reg == nil {
			reg = newRegistry()
		}
		routerOpts = append(routerOpts, api.WithMetrics(middleware.MetricsConfig{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
			Buckets:   cfg.Metrics.Buckets,
			SkipPaths: []string{"/metrics"},
		}, reg, cfg.Metrics.Token))
	}

	handler := api.NewRouter(logger, routerOpts...)

	s := &Server{
		id:      id,
		logger:  logger,
		handler: handler,
		httpServer: &http.Server{
			Addr:              options.addr,
			Handler:           handler,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1 MiB
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
	}
	s.OnClose(func(context.Context) error {
		s.logger.Info("stopping the server")
		return nil
	})
	return s
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ID is the instance id attached to every log line of this server.
func (s *Server) ID() string { return s.id }

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// BoundAddr is the address actually listened on, empty before Serve.
func (s *Server) BoundAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

// Logger returns the instance-scoped logger.
func (s *Server) Logger() *slog.Logger { return s.logger }

// OnClose appends a hook. Hooks run in registration order.
func (s *Server) OnClose(hook CloseHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Serve accepts connections on ln until Close. A closed server is not an error.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}
	return nil
}

// Close drains in-flight requests, then runs the close hooks. Later calls return the first result.
func (s *Server) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
			// 超时后强制断开剩余连接
			_ = s.httpServer.Close()
		}

		s.mu.Lock()
		hooks := append([]CloseHook(nil), s.hooks...)
		s.mu.Unlock()

		for _, hook := range hooks {
			if err := hook(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
