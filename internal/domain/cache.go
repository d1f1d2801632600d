package domain

import (
	"context"
	"time"

	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// CacheEntry is one cached read result. The value is the encoded payload the
// fetch produced; staleness is evaluated against FetchedAt and TTL. In-flight
// status lives in the query engine, not in the store, so entries are plain data.
type CacheEntry struct {
	Value     []byte        `json:"value" msgpack:"value"`
	FetchedAt time.Time     `json:"fetched_at" msgpack:"fetched_at"`
	TTL       time.Duration `json:"ttl" msgpack:"ttl"`
	Stale     bool          `json:"stale" msgpack:"stale"` // set by invalidation, forces refetch on next access
}

// Fresh reports whether the entry can still be served without a network fetch.
func (e *CacheEntry) Fresh(now time.Time) bool {
	if e == nil || e.Stale {
		return false
	}
	return now.Sub(e.FetchedAt) < e.TTL
}

// CacheStore is the shared mutable cache, logically partitioned by key. Only
// the orchestration layer writes to it.
type CacheStore interface {
	// Get retrieves the entry for a key. Returns ErrCacheMiss when absent.
	Get(ctx context.Context, key cachekeys.Key) (*CacheEntry, error)

	// Set stores the entry for a key, replacing any previous entry.
	Set(ctx context.Context, key cachekeys.Key, entry *CacheEntry) error

	// Invalidate marks every entry matching the predicate stale and returns
	// how many entries were affected. Stale entries are refetched on next
	// access rather than dropped, so readers keep placeholder data.
	Invalidate(ctx context.Context, pred cachekeys.Predicate) (int, error)

	// Clear drops every entry. Used when the session is destroyed.
	Clear(ctx context.Context) error
}
