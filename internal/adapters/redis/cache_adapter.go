// Package redis provides an optional CacheStore shared across processes, for
// deployments where several sync engines (e.g. a kiosk fleet) should observe
// the same invalidations. Entries are msgpack-encoded; the structured key is
// persisted inside each record so invalidation predicates still match
// structurally after a round trip.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// Entries are dropped by Redis itself well after any staleness window; the
// staleness TTL is evaluated client-side so stale entries keep serving
// placeholder data until refetched.
const housekeepingTTL = 24 * time.Hour

const scanBatch = 100

type record struct {
	Resource  string        `msgpack:"resource"`
	Parts     []string      `msgpack:"parts"`
	Value     []byte        `msgpack:"value"`
	FetchedAt time.Time     `msgpack:"fetched_at"`
	TTL       time.Duration `msgpack:"ttl"`
	Stale     bool          `msgpack:"stale"`
}

// CacheAdapter implements domain.CacheStore using Redis.
type CacheAdapter struct {
	redisClient *redis.Client
	logger      domain.Logger
	prefix      string
}

// NewCacheAdapter creates a new instance of CacheAdapter.
func NewCacheAdapter(redisClient *redis.Client, logger domain.Logger, prefix string) *CacheAdapter {
	if redisClient == nil {
		// Panicking here because this is a critical setup error.
		panic("redisClient cannot be nil in NewCacheAdapter")
	}
	if logger == nil {
		panic("logger cannot be nil in NewCacheAdapter")
	}
	if prefix == "" {
		prefix = "orza_sync"
	}
	return &CacheAdapter{
		redisClient: redisClient,
		logger:      logger,
		prefix:      prefix,
	}
}

func (a *CacheAdapter) redisKey(key cachekeys.Key) string {
	return a.prefix + ":" + key.String()
}

// Get retrieves the entry for a key. Returns domain.ErrCacheMiss when absent.
func (a *CacheAdapter) Get(ctx context.Context, key cachekeys.Key) (*domain.CacheEntry, error) {
	val, err := a.redisClient.Get(ctx, a.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		a.logger.Debug(ctx, "Redis cache miss", "key", key.String())
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		a.logger.Error(ctx, "Failed to get entry from Redis cache", "key", key.String(), "error", err.Error())
		return nil, fmt.Errorf("redis GET for cache key '%s' failed: %w", key.String(), err)
	}

	var rec record
	if err = msgpack.Unmarshal(val, &rec); err != nil {
		a.logger.Error(ctx, "Failed to unmarshal cached entry", "key", key.String(), "error", err.Error())
		return nil, fmt.Errorf("failed to unmarshal cache entry for key '%s': %w", key.String(), err)
	}

	return &domain.CacheEntry{
		Value:     rec.Value,
		FetchedAt: rec.FetchedAt,
		TTL:       rec.TTL,
		Stale:     rec.Stale,
	}, nil
}

// Set stores the entry for a key, replacing any previous entry.
func (a *CacheAdapter) Set(ctx context.Context, key cachekeys.Key, entry *domain.CacheEntry) error {
	rec := record{
		Resource:  key.Resource,
		Parts:     key.Parts,
		Value:     entry.Value,
		FetchedAt: entry.FetchedAt,
		TTL:       entry.TTL,
		Stale:     entry.Stale,
	}
	payload, err := msgpack.Marshal(&rec)
	if err != nil {
		a.logger.Error(ctx, "Failed to marshal cache entry", "key", key.String(), "error", err.Error())
		return fmt.Errorf("failed to marshal cache entry for key '%s': %w", key.String(), err)
	}

	if err = a.redisClient.Set(ctx, a.redisKey(key), payload, housekeepingTTL).Err(); err != nil {
		a.logger.Error(ctx, "Failed to set cache entry in Redis", "key", key.String(), "error", err.Error())
		return fmt.Errorf("redis SET for cache key '%s' failed: %w", key.String(), err)
	}
	return nil
}

// Invalidate scans the namespace, marks matching entries stale and writes them
// back. Returns the affected count.
func (a *CacheAdapter) Invalidate(ctx context.Context, pred cachekeys.Predicate) (int, error) {
	count := 0
	iter := a.redisClient.Scan(ctx, 0, a.prefix+":*", scanBatch).Iterator()
	for iter.Next(ctx) {
		redisKey := iter.Val()
		val, err := a.redisClient.Get(ctx, redisKey).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return count, fmt.Errorf("redis GET during invalidation scan failed: %w", err)
		}

		var rec record
		if err = msgpack.Unmarshal(val, &rec); err != nil {
			a.logger.Warn(ctx, "Skipping undecodable cache entry during invalidation", "key", redisKey, "error", err.Error())
			continue
		}
		if rec.Stale || !pred(cachekeys.Key{Resource: rec.Resource, Parts: rec.Parts}) {
			continue
		}

		rec.Stale = true
		payload, err := msgpack.Marshal(&rec)
		if err != nil {
			return count, fmt.Errorf("failed to re-marshal cache entry '%s': %w", redisKey, err)
		}
		// KeepTTL preserves the housekeeping expiry set on write.
		if err = a.redisClient.Set(ctx, redisKey, payload, redis.KeepTTL).Err(); err != nil {
			return count, fmt.Errorf("redis SET during invalidation failed for '%s': %w", redisKey, err)
		}
		count++
	}
	if err := iter.Err(); err != nil {
		return count, fmt.Errorf("redis SCAN during invalidation failed: %w", err)
	}
	if count > 0 {
		a.logger.Debug(ctx, "Marked cache entries stale in Redis", "count", count)
	}
	return count, nil
}

// Clear drops every entry in the namespace.
func (a *CacheAdapter) Clear(ctx context.Context) error {
	iter := a.redisClient.Scan(ctx, 0, a.prefix+":*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis SCAN during clear failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := a.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL during clear failed: %w", err)
	}
	a.logger.Info(ctx, "Cleared Redis cache namespace", "keys_dropped", len(keys))
	return nil
}
