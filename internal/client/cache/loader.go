// Package cache implements the users cache on top of a cachestore.Store: it
// stamps saved collections with the current time and serves them back only
// while the validity Policy allows.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/client/repositories/cachestore"
	"github.com/dmitrijs2005/ghbrowse/internal/logging"
	"github.com/dmitrijs2005/ghbrowse/internal/metrics"
	"github.com/jonboulle/clockwork"
)

// UserCache is what the repository needs from the cache.
type UserCache interface {
	Save(ctx context.Context, users []models.User) error
	Load(ctx context.Context) ([]models.User, error)
	ValidateCache(ctx context.Context) error
}

// Loader is the UserCache over a cachestore.Store, judged by Policy against clock.
type Loader struct {
	store  cachestore.Store
	clock  clockwork.Clock
	policy Policy
	log    logging.Logger
}

var _ UserCache = (*Loader)(nil)

// NewLoader builds a Loader. A nil clock means the wall clock, a nil logger
// discards output.
func NewLoader(store cachestore.Store, clock clockwork.Clock, policy Policy, log logging.Logger) *Loader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Loader{store: store, clock: clock, policy: policy, log: log}
}

// Save replaces the cached collection with users stamped with the current time.
func (l *Loader) Save(ctx context.Context, users []models.User) error {
	if err := l.store.DeleteCachedUsers(ctx); err != nil {
		metrics.CacheWritesTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("save cache: %w", err)
	}

	now := l.clock.Now()
	if err := l.store.Insert(ctx, models.ToLocal(users), now); err != nil {
		metrics.CacheWritesTotal.WithLabelValues("insert", "error").Inc()
		return fmt.Errorf("save cache: %w", err)
	}
	metrics.CacheWritesTotal.WithLabelValues("insert", "ok").Inc()

	l.log.Debug(ctx, "cache saved", "users", len(users), "timestamp", now)
	return nil
}

// Load returns the cached users when a valid collection exists. A missing or
// stale collection yields an empty slice and no error; only a failing store
// returns an error.
func (l *Loader) Load(ctx context.Context) ([]models.User, error) {
	cached, err := l.store.Retrieve(ctx)
	if err != nil {
		metrics.CacheLoadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("load cache: %w", err)
	}
	if cached == nil {
		metrics.CacheLoadsTotal.WithLabelValues(metrics.ResultMiss).Inc()
		return []models.User{}, nil
	}
	if err := l.check(cached); err != nil {
		metrics.CacheLoadsTotal.WithLabelValues(metrics.ResultExpired).Inc()
		l.log.Debug(ctx, "cache not served", "error", err)
		return []models.User{}, nil
	}

	metrics.CacheLoadsTotal.WithLabelValues(metrics.ResultHit).Inc()
	return models.ToModels(cached.Users), nil
}

// ValidateCache deletes the stored collection when it is stale or cannot be
// read. It never reports the retrieval failure itself, only a failed delete.
func (l *Loader) ValidateCache(ctx context.Context) error {
	cached, err := l.store.Retrieve(ctx)
	switch {
	case err != nil:
		l.log.Warn(ctx, "cache unreadable, deleting", "error", err)
	case cached == nil:
		return nil
	default:
		err = l.check(cached)
		if err == nil {
			return nil
		}
		l.log.Info(ctx, "cache stale, deleting", "error", err)
	}

	if err := l.store.DeleteCachedUsers(ctx); err != nil {
		metrics.CacheWritesTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("validate cache: %w", err)
	}
	metrics.CacheWritesTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (l *Loader) check(cached *models.CachedUsers) error {
	now := l.clock.Now()
	if !l.policy.Validate(cached.Timestamp, now) {
		return fmt.Errorf("%w: fetched at %s, now %s", ErrExpired,
			cached.Timestamp.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return nil
}
