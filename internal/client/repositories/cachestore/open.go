package cachestore

import (
	"context"
	"fmt"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendS3       Backend = "s3"
)

// Options selects and configures the backing opened by Open.
type Options struct {
	Backend     Backend
	SQLitePath  string
	PostgresDSN string
	S3          S3Options
}

var newS3API = NewS3Client

// Open builds the Store selected by opts.Backend. The returned close function
// releases the backing's resources and is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), noop, nil
	case BackendSQLite:
		if opts.SQLitePath == "" {
			return nil, noop, fmt.Errorf("sqlite backend: empty path")
		}
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.DB().Close, nil
	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, noop, fmt.Errorf("postgres backend: empty dsn")
		}
		s, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return s, s.DB().Close, nil
	case BackendS3:
		if opts.S3.Bucket == "" {
			return nil, noop, fmt.Errorf("s3 backend: empty bucket")
		}
		api, err := newS3API(ctx, opts.S3)
		if err != nil {
			return nil, noop, fmt.Errorf("s3 backend: %w", err)
		}
		key := opts.S3.Key
		if key == "" {
			key = DefaultS3Key
		}
		return NewS3Store(api, opts.S3.Bucket, key), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
