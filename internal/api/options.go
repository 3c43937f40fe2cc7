// 文件路径: internal/api/options.go
// 模块说明: Router 的可选项。严格输入校验、Prometheus 指标、请求体上限和时钟都通过 RouterOption 注入。
package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/creamcroissant/skeleton/internal/api/middleware"
)

// RouterOption 允许在创建 Router 时附加功能。
type RouterOption func(*routerOptions)

type routerOptions struct {
	strictInput *middleware.StrictInputConfig
	metrics     *metricsOptions
	bodyLimit   int64
	now         func() time.Time
}

type metricsOptions struct {
	config   middleware.MetricsConfig
	registry *prometheus.Registry
	token    string
}

func buildOptions(opts []RouterOption) routerOptions {
	options := routerOptions{
		bodyLimit: middleware.DefaultBodyLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// WithStrictInput installs the strict input check on every API route.
func WithStrictInput(cfg middleware.StrictInputConfig) RouterOption {
	return func(ro *routerOptions) {
		ro.strictInput = &cfg
	}
}

// WithMetrics records request metrics on registry and serves them at /metrics, behind a bearer
// token when token is set.
func WithMetrics(cfg middleware.MetricsConfig, registry *prometheus.Registry, token string) RouterOption {
	return func(ro *routerOptions) {
		if registry == nil {
			registry = prometheus.NewRegistry()
		}
		ro.metrics = &metricsOptions{config: cfg, registry: registry, token: token}
	}
}

// WithBodyLimit caps request bodies at maxBytes.
func WithBodyLimit(maxBytes int64) RouterOption {
	return func(ro *routerOptions) {
		if maxBytes > 0 {
			ro.bodyLimit = maxBytes
		}
	}
}

// WithClock replaces the clock handlers read.
func WithClock(now func() time.Time) RouterOption {
	return func(ro *routerOptions) {
		if now != nil {
			ro.now = now
		}
	}
}
