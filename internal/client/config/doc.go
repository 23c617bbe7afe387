// Package config loads runtime configuration for the ghbrowse CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//  4. GHBROWSE_TOKEN, used only when no token was set above.
//
// # JSON schema
//
// Durations are timex.Duration values, so "60s", "7d" or integer
// nanoseconds are accepted:
//
//	{
//	  "base_url": "https://api.github.com",
//	  "page_size": 20,
//	  "request_timeout": "60s",
//	  "cache_backend": "sqlite",
//	  "sqlite_path": "ghbrowse.db",
//	  "max_cache_age": "7d",
//	  "metrics_addr": "127.0.0.1:9108",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
//
// Primary API
//
//   - type Config: all settings
//   - func LoadConfig() *Config: defaults, JSON, flags, then environment
//   - func (*Config) Validate() error: rejects unusable combinations
package config
