package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// TokenEnv names the environment variable read when no token is configured.
const TokenEnv = "GHBROWSE_TOKEN"

// Config holds runtime settings for the ghbrowse CLI.
//
// Fields:
//   - BaseURL: GitHub REST API root (GitHub Enterprise: https://host/api/v3).
//   - Token: optional personal access token.
//   - PageSize: users requested per page.
//   - RequestTimeout: upper bound for one HTTP request, retries excluded.
//   - CacheBackend: memory, sqlite, postgres or s3.
//   - MaxCacheAgeDays: calendar days a cached first page stays valid.
//   - MetricsAddr: listen address of /metrics; empty disables it.
type Config struct {
	BaseURL        string
	Token          string
	PageSize       int
	RequestTimeout time.Duration

	CacheBackend    string
	SQLitePath      string
	PostgresDSN     string
	S3Bucket        string
	S3Key           string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	MaxCacheAgeDays int

	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://api.github.com"
	c.PageSize = 20
	c.RequestTimeout = 60 * time.Second
	c.CacheBackend = "sqlite"
	c.SQLitePath = "ghbrowse.db"
	c.S3Key = "ghbrowse/users-cache.json"
	c.S3Region = "us-east-1"
	c.MaxCacheAgeDays = 7
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case "memory", "sqlite", "postgres", "s3":
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page size %d out of range [1, 100]", c.PageSize)
	}
	if c.MaxCacheAgeDays < 0 {
		return fmt.Errorf("negative max cache age %d", c.MaxCacheAgeDays)
	}
	if c.CacheBackend == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("postgres cache backend needs a dsn")
	}
	if c.CacheBackend == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("s3 cache backend needs a bucket")
	}
	return nil
}

var getenv = os.Getenv

// parseEnv fills the token from TokenEnv unless one is already set.
func parseEnv(cfg *Config) {
	if cfg.Token != "" {
		return
	}
	cfg.Token = strings.TrimSpace(getenv(TokenEnv))
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), command-line flags (if present) and the environment.
// Later sources take precedence over earlier ones, except that the
// environment only supplies a missing token.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	parseEnv(cfg)
	return cfg
}
