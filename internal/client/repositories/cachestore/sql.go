package cachestore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/dbx"
	"github.com/google/uuid"
)

// Dialect adapts the shared SQL to a database engine.
type Dialect struct {
	Name string
	// numbered placeholders ($1, $2, ...) instead of "?"
	numbered bool
}

var (
	DialectSQLite   = Dialect{Name: "sqlite"}
	DialectPostgres = Dialect{Name: "postgres", numbered: true}
)

func (d Dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const (
	selectCacheQuery = `SELECT c.id, c.fetched_at, u.login, u.avatar_url, u.html_url
		FROM user_cache c
		LEFT JOIN cached_users u ON u.cache_id = c.id
		ORDER BY c.fetched_at DESC, u.position ASC`
	deleteUsersQuery = `DELETE FROM cached_users`
	deleteCacheQuery = `DELETE FROM user_cache`
	insertCacheQuery = `INSERT INTO user_cache (id, fetched_at) VALUES (?, ?)`
	insertUserQuery  = `INSERT INTO cached_users (cache_id, position, login, avatar_url, html_url) VALUES (?, ?, ?, ?, ?)`
)

// SQLStore implements Store over database/sql. The collection lives in two
// tables: one user_cache row and its ordered cached_users rows.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect

	// newID is a test seam for row ids.
	newID func() string
}

// NewSQLStore returns a SQLStore over an already migrated database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, newID: uuid.NewString}
}

// DB exposes the underlying handle so the owner can close it.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Retrieve reads the collection with a single statement, so it never observes
// a half-written replacement.
func (s *SQLStore) Retrieve(ctx context.Context) (*models.CachedUsers, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(selectCacheQuery))
	if err != nil {
		return nil, s.unavailable("select cache", err)
	}
	defer rows.Close()

	var (
		result  *models.CachedUsers
		cacheID string
	)
	for rows.Next() {
		var (
			id                     string
			fetchedAt              int64
			login, avatar, htmlURL sql.NullString
		)
		if err := rows.Scan(&id, &fetchedAt, &login, &avatar, &htmlURL); err != nil {
			return nil, fmt.Errorf("%s store: scan cache row: %w: %w", s.dialect.Name, ErrCorrupt, err)
		}
		if result == nil {
			cacheID = id
			result = &models.CachedUsers{Users: []models.LocalUser{}, Timestamp: time.Unix(0, fetchedAt).UTC()}
		}
		// a second collection can only be left by an external writer; the newest wins
		if id != cacheID {
			continue
		}
		if !login.Valid {
			continue
		}
		result.Users = append(result.Users, models.LocalUser{
			Login:     login.String,
			AvatarURL: avatar.String,
			HTMLURL:   htmlURL.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate cache rows", err)
	}
	return result, nil
}

// Insert deletes the stored collection and writes the new one in one
// transaction.
func (s *SQLStore) Insert(ctx context.Context, users []models.LocalUser, timestamp time.Time) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.deleteAll(ctx, tx); err != nil {
			return err
		}

		id := s.newID()
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(insertCacheQuery), id, timestamp.UnixNano()); err != nil {
			return fmt.Errorf("insert cache row: %w", err)
		}
		for i, u := range users {
			if _, err := tx.ExecContext(ctx, s.dialect.rebind(insertUserQuery), id, i, u.Login, u.AvatarURL, u.HTMLURL); err != nil {
				return fmt.Errorf("insert user %q: %w", u.Login, err)
			}
		}
		return nil
	})
	if err != nil {
		return s.unavailable("insert", err)
	}
	return nil
}

func (s *SQLStore) DeleteCachedUsers(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.deleteAll(ctx, tx)
	})
	if err != nil {
		return s.unavailable("delete", err)
	}
	return nil
}

func (s *SQLStore) deleteAll(ctx context.Context, tx dbx.DBTX) error {
	if _, err := tx.ExecContext(ctx, deleteUsersQuery); err != nil {
		return fmt.Errorf("delete cached users: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteCacheQuery); err != nil {
		return fmt.Errorf("delete cache row: %w", err)
	}
	return nil
}

func (s *SQLStore) unavailable(op string, err error) error {
	return fmt.Errorf("%s store: %s: %w: %w", s.dialect.Name, op, ErrStorageUnavailable, err)
}
