package cachestore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/ghbrowse/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the SQLite database at dsn, applies
// the embedded migrations and returns a store over it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w: %w", dsn, ErrStorageUnavailable, err)
	}
	// a single writer connection keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, goose.DialectSQLite3, migrations.SQLite, "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, DialectSQLite), nil
}

// gooseUp is a seam for testing migration failures.
var gooseUp = func(ctx context.Context, p *goose.Provider) error {
	_, err := p.Up(ctx)
	return err
}

// RunMigrations applies the migrations found under dir of fsys.
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrations dir %q: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("migrations provider: %w", err)
	}
	if err := gooseUp(ctx, provider); err != nil {
		return fmt.Errorf("apply migrations: %w: %w", ErrStorageUnavailable, err)
	}
	return nil
}
