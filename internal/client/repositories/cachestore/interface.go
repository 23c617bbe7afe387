package cachestore

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
)

// Store is a single-slot persistence for the cached users collection.
type Store interface {
	// Retrieve returns the stored collection, or nil when the slot is empty.
	// It has no side effects.
	Retrieve(ctx context.Context) (*models.CachedUsers, error)

	// Insert atomically replaces whatever is stored with users and timestamp.
	Insert(ctx context.Context, users []models.LocalUser, timestamp time.Time) error

	// DeleteCachedUsers empties the slot. Deleting an empty slot succeeds.
	DeleteCachedUsers(ctx context.Context) error
}
