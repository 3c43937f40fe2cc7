package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional YAML file and SKELETON_* environment
// variables, in increasing priority. An empty path searches ./config.yaml and
// /etc/skeleton/config.yaml; a missing file is not an error unless path was given.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/skeleton/")
	}

	v.SetEnvPrefix("SKELETON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosting platforms inject
	if err := v.BindEnv("http.port", "SKELETON_HTTP_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env http.port: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("http.shutdown_timeout must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "")
	v.SetDefault("http.port", DefaultPort)
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("http.body_limit", 1<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)
	v.SetDefault("log.environment", "production")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "skeleton")
	v.SetDefault("metrics.subsystem", "http")
	v.SetDefault("metrics.token", "")

	v.SetDefault("validation.body", true)
	v.SetDefault("validation.query", true)
}
