// 文件路径: internal/api/router.go
// 模块说明: 组装 chi Router：公共中间件、/metrics，以及 /api 下按版本划分的业务路由。
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creamcroissant/skeleton/internal/api/middleware"
)

const apiPrefix = "/api"

// NewRouter wires the ambient middleware, the metrics endpoint and every API namespace.
func NewRouter(logger *slog.Logger, opts ...RouterOption) http.Handler {
	options := buildOptions(opts)
	if logger == nil {
		logger = slog.Default()
	}

	logging := middleware.DefaultLoggingConfig()
	logging.Logger = logger

	r := chi.NewRouter()

	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
	)

	if options.metrics != nil {
		metrics := middleware.NewMetrics(options.metrics.config, options.metrics.registry)
		r.Use(metrics.Middleware())
	}

	r.Use(
		middleware.BodyLimit(middleware.BodyLimitConfig{
			MaxBytes: options.bodyLimit,
		}),
		middleware.StructuredLogger(logging),
		chiMiddleware.Recoverer,
	)

	if options.metrics != nil {
		metricsHandler := promhttp.HandlerFor(options.metrics.registry, promhttp.HandlerOpts{})
		if options.metrics.token != "" {
			r.With(middleware.MetricsGuard(options.metrics.token)).Handle("/metrics", metricsHandler)
		} else {
			r.Handle("/metrics", metricsHandler)
		}
	}

	registerAPIRoutes(r, options)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		logger.Warn("unmapped route hit", "method", req.Method, "path", req.URL.Path)
		http.NotFound(w, req)
	})

	return r
}

func registerAPIRoutes(root chi.Router, options routerOptions) {
	root.Route(apiPrefix, func(api chi.Router) {
		registerV1Routes(api, options)
	})
}
