package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Values come from an optional
// YAML file, overridden by environment variables where noted.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// UpstreamConfig configures the analytics API client.
type UpstreamConfig struct {
	// BaseURL of the analytics API host.
	BaseURL string `yaml:"base_url"`
	// APIKey is required; env APPANALYTICS_API_KEY overrides. Its absence
	// is a startup failure, not a per-call error.
	APIKey string `yaml:"api_key"`
}

// CacheConfig selects the cache backend. RedisURL wins when set; SQLitePath
// is the file-backed fallback; "memory" enables the in-process store.
// With none configured, caching is disabled and every call passes through.
type CacheConfig struct {
	RedisURL   string `yaml:"redis_url"`
	SQLitePath string `yaml:"sqlite_path"`
	Memory     bool   `yaml:"memory"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// MetricsConfig optionally exposes Prometheus metrics over HTTP.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultTTL applies when ttl_seconds is unset.
const DefaultTTL = time.Hour

// Load reads the config file at path (empty path skips the file), applies
// environment overrides, and validates required fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Upstream: UpstreamConfig{BaseURL: "https://api.appanalytics.io"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("APPANALYTICS_API_KEY")); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("APPANALYTICS_BASE_URL")); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.TTLSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("METRICS_ADDR")); v != "" {
		cfg.Metrics.Addr = v
	}

	if cfg.Upstream.APIKey == "" {
		return Config{}, fmt.Errorf("missing API key: set APPANALYTICS_API_KEY or upstream.api_key")
	}
	return cfg, nil
}

// TTL returns the configured cache TTL.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds > 0 {
		return time.Duration(c.TTLSeconds) * time.Second
	}
	return DefaultTTL
}
