package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/ghbrowse/internal/flagx"
)

var flagNames = []string{
	"-u", "-t", "-p", "-timeout",
	"-b", "-db", "-pg", "-s3-bucket", "-s3-key", "-s3-region", "-s3-endpoint", "-max-age-days",
	"-metrics", "-log-level", "-log-format",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-u string          GitHub API base URL
//	-t string          GitHub token
//	-p int             page size
//	-timeout duration  request timeout
//	-b string          cache backend: memory, sqlite, postgres, s3
//	-db string         SQLite file
//	-pg string         Postgres DSN
//	-s3-bucket, -s3-key, -s3-region, -s3-endpoint string
//	-max-age-days int  cache validity in days
//	-metrics string    /metrics listen address
//	-log-level, -log-format string
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// layers (-c) do not interfere. Panics on invalid values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "GitHub API base URL")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "GitHub token")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "users per page")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")

	fs.StringVar(&cfg.CacheBackend, "b", cfg.CacheBackend, "cache backend (memory, sqlite, postgres, s3)")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "SQLite cache file")
	fs.StringVar(&cfg.PostgresDSN, "pg", cfg.PostgresDSN, "Postgres DSN")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Key, "s3-key", cfg.S3Key, "S3 object key")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3-compatible endpoint (MinIO)")
	fs.IntVar(&cfg.MaxCacheAgeDays, "max-age-days", cfg.MaxCacheAgeDays, "cache validity in days")

	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
