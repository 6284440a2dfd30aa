// Package config loads the server configuration: defaults first, then an
// optional YAML file merged on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server's tunables. Every field has a working default;
// RequestPath is the compile-time-agreed well-known channel location.
type Config struct {
	RequestPath    string          `yaml:"requestPath"`
	LogFile        string          `yaml:"logFile"`
	MaxWorkers     int             `yaml:"maxWorkers"`     // 0 = unbounded
	MetricsAddr    string          `yaml:"metricsAddr"`    // empty = metrics endpoint disabled
	ComputeTimeout time.Duration   `yaml:"computeTimeout"` // 0 = no timeout middleware
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig enables the opt-in rate limit middleware.
type RateLimitConfig struct {
	Enabled   bool    `yaml:"enabled"`
	PerSecond float64 `yaml:"perSecond"`
	Burst     int     `yaml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		RequestPath: "/tmp/arith_req_fifo",
		LogFile:     "server.log",
	}
}

// Load returns Default overlaid with the YAML file at path. An empty path
// means defaults only; a path that cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.RequestPath == "" {
		return cfg, fmt.Errorf("config: requestPath must not be empty")
	}
	return cfg, nil
}
