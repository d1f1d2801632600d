// Package memcache is the default in-process CacheStore. Entries live in a
// map keyed by the rendered cache key; the structured key is retained alongside
// each entry so invalidation predicates match structurally.
package memcache

import (
	"context"
	"sync"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

type record struct {
	key   cachekeys.Key
	entry *domain.CacheEntry
}

// Store implements domain.CacheStore in process memory.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record
	logger  domain.Logger
}

// New creates an empty store.
func New(logger domain.Logger) *Store {
	return &Store{
		records: make(map[string]*record),
		logger:  logger,
	}
}

// Get retrieves the entry for a key. Returns domain.ErrCacheMiss when absent.
func (s *Store) Get(_ context.Context, key cachekeys.Key) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key.String()]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	// Copy so readers never observe a later Invalidate mid-access.
	entry := *rec.entry
	return &entry, nil
}

// Set stores the entry for a key, replacing any previous entry.
func (s *Store) Set(_ context.Context, key cachekeys.Key, entry *domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	s.records[key.String()] = &record{key: key, entry: &stored}
	return nil
}

// Invalidate marks every entry matching the predicate stale and returns the
// affected count.
func (s *Store) Invalidate(ctx context.Context, pred cachekeys.Predicate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, rec := range s.records {
		if pred(rec.key) && !rec.entry.Stale {
			rec.entry.Stale = true
			count++
		}
	}
	if count > 0 && s.logger != nil {
		s.logger.Debug(ctx, "Marked cache entries stale", "count", count)
	}
	return count, nil
}

// Clear drops every entry.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*record)
	return nil
}

// Len reports how many entries the store currently holds. Used by tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
