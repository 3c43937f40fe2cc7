package config

import (
	"log/slog"
	"net"
	"strconv"
	"time"
)

// DefaultPort is used when no port is configured.
const DefaultPort = 3000

// Config 汇总应用的全部配置。
type Config struct {
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Validation ValidationConfig `mapstructure:"validation"`

	// Source is the config file that was read, empty when only defaults and env applied.
	Source string `mapstructure:"-"`
}

// HTTPConfig 定义 HTTP 服务配置。
type HTTPConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimit       int64         `mapstructure:"body_limit"`
}

// Addr is host:port, falling back to DefaultPort.
func (c HTTPConfig) Addr() string {
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// LogConfig 定义日志配置。
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	AddSource   bool   `mapstructure:"add_source"`
	Environment string `mapstructure:"environment"`
}

// MetricsConfig 定义 Prometheus 指标配置。
type MetricsConfig struct {
	Enabled   bool      `mapstructure:"enabled"`
	Namespace string    `mapstructure:"namespace"`
	Subsystem string    `mapstructure:"subsystem"`
	Token     string    `mapstructure:"token"`
	Buckets   []float64 `mapstructure:"buckets"`
}

// ValidationConfig 控制严格输入校验覆盖的请求部分。
type ValidationConfig struct {
	Body  bool `mapstructure:"body"`
	Query bool `mapstructure:"query"`
}

// SlogLevel maps Level to a slog level, INFO for unknown names.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
