package cachestore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
)

// MemoryStore keeps the collection in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	cache *models.CachedUsers
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Retrieve(ctx context.Context) (*models.CachedUsers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cache == nil {
		return nil, nil
	}
	return &models.CachedUsers{Users: slices.Clone(s.cache.Users), Timestamp: s.cache.Timestamp}, nil
}

func (s *MemoryStore) Insert(ctx context.Context, users []models.LocalUser, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = &models.CachedUsers{Users: slices.Clone(users), Timestamp: timestamp}
	return nil
}

func (s *MemoryStore) DeleteCachedUsers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	return nil
}
