// Package services contains application services for the ghbrowse client.
// This file defines the users repository: cache-first first page, remote
// pagination, and cache fallback for failed forced refreshes.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ghbrowse/internal/client/cache"
	"github.com/dmitrijs2005/ghbrowse/internal/client/client"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/logging"
	"github.com/dmitrijs2005/ghbrowse/internal/metrics"
)

// UserRepository is the single entry point for user data.
//
// Contract:
//   - FetchUsers: the first page (since == 0) is served from a valid cache
//     unless forceRefresh is set; every successful first-page fetch replaces
//     the cache; a failed forced refresh falls back to a valid cache.
//   - FetchUserDetail: always remote, never cached.
//
// Cache failures are logged and never returned. Safe for concurrent use.
type UserRepository interface {
	FetchUsers(ctx context.Context, since, perPage int, forceRefresh bool) ([]models.User, error)
	FetchUserDetail(ctx context.Context, username string) (*models.UserDetail, error)
}

// userRepository is the concrete UserRepository backed by a remote Client and
// a UserCache.
type userRepository struct {
	client client.Client
	cache  cache.UserCache
	log    logging.Logger
}

// NewUserRepository constructs a UserRepository bound to the given client and cache.
func NewUserRepository(c client.Client, uc cache.UserCache, log logging.Logger) UserRepository {
	if log == nil {
		log = logging.NewNop()
	}
	return &userRepository{client: c, cache: uc, log: log}
}

func (r *userRepository) FetchUsers(ctx context.Context, since, perPage int, forceRefresh bool) ([]models.User, error) {
	if since == 0 && !forceRefresh {
		if cached := r.loadCache(ctx); len(cached) > 0 {
			r.log.Debug(ctx, "serving users from cache", "count", len(cached))
			return cached, nil
		}
	}

	dtos, err := r.client.FetchUsersPage(ctx, since, perPage)
	if err != nil {
		if forceRefresh {
			if cached := r.loadCache(ctx); len(cached) > 0 {
				metrics.RefreshFallbacksTotal.Inc()
				r.log.Warn(ctx, "refresh failed, serving cached users", "error", err, "count", len(cached))
				return cached, nil
			}
		}
		return nil, fmt.Errorf("fetch users since %d: %w", since, err)
	}

	users := MapUsers(dtos)
	if since == 0 {
		if err := r.cache.Save(ctx, users); err != nil {
			r.log.Warn(ctx, "failed to cache users", "error", err)
		}
	}
	return users, nil
}

func (r *userRepository) FetchUserDetail(ctx context.Context, username string) (*models.UserDetail, error) {
	dto, err := r.client.FetchUserDetail(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch user %q: %w", username, err)
	}
	return MapUserDetail(dto), nil
}

// loadCache returns the valid cached users; a failing cache counts as empty.
func (r *userRepository) loadCache(ctx context.Context) []models.User {
	users, err := r.cache.Load(ctx)
	if err != nil {
		r.log.Warn(ctx, "failed to load cached users", "error", err)
		return nil
	}
	return users
}
