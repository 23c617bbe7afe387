package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ghbrowse/internal/flagx"
	"github.com/dmitrijs2005/ghbrowse/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations use timex.Duration, so "60s", "7d" and integer nanoseconds are
// all accepted.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	Token          string         `json:"token"`
	PageSize       int            `json:"page_size"`
	RequestTimeout timex.Duration `json:"request_timeout"`

	CacheBackend string         `json:"cache_backend"`
	SQLitePath   string         `json:"sqlite_path"`
	PostgresDSN  string         `json:"postgres_dsn"`
	S3Bucket     string         `json:"s3_bucket"`
	S3Key        string         `json:"s3_key"`
	S3Region     string         `json:"s3_region"`
	S3Endpoint   string         `json:"s3_endpoint"`
	S3AccessKey  string         `json:"s3_access_key"`
	S3SecretKey  string         `json:"s3_secret_key"`
	MaxCacheAge  timex.Duration `json:"max_cache_age"`

	MetricsAddr string `json:"metrics_addr"`
	LogLevel    string `json:"log_level"`
	LogFormat   string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys absent from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.Token, jc.Token)
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}

	setString(&cfg.CacheBackend, jc.CacheBackend)
	setString(&cfg.SQLitePath, jc.SQLitePath)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Key, jc.S3Key)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.MaxCacheAge.Duration != 0 {
		cfg.MaxCacheAgeDays = timex.Days(jc.MaxCacheAge.Duration)
	}

	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
