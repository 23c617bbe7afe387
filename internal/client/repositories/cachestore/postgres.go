package cachestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ghbrowse/internal/client/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// OpenPostgres connects to the Postgres database at dsn, applies the embedded
// migrations and returns a store over it. Several clients may share it; the
// slot then holds whichever first page was written last.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w: %w", ErrStorageUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", ErrStorageUnavailable, err)
	}
	if err := RunMigrations(ctx, db, goose.DialectPostgres, migrations.Postgres, "postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, DialectPostgres), nil
}
