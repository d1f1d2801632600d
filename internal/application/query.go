package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/metrics"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/contextkeys"
)

// QueryOptions declares how one cached read behaves.
type QueryOptions struct {
	// TTL is the staleness window: after this long, the next access triggers
	// a fresh fetch even though cached data exists.
	TTL time.Duration

	// Enabled gates reads on a prerequisite. A nil func means always enabled;
	// a false return yields domain.ErrQueryDisabled without touching the
	// network or the cache.
	Enabled func() bool

	// RefetchOnFocus registers the key to be marked stale whenever the UI
	// regains foreground focus, a consistency aid for collaboratively edited
	// data (likes, comments).
	RefetchOnFocus bool
}

// QueryEngine is the read side of the synchronization layer: cache-or-fetch
// with per-key coalescing, staleness windows, enabled-gating, and focus
// refetch. Only this engine (and the mutation runner's invalidations) writes
// to the cache store.
type QueryEngine struct {
	cache  domain.CacheStore
	logger domain.Logger
	locker *keyLockManager
	clock  func() time.Time

	focusMu   sync.Mutex
	focusKeys map[string]cachekeys.Key

	// genMu guards the per-key invalidation generations. Fetches snapshot the
	// generation before going to the network; an invalidation arriving while
	// the fetch is in flight moves it, and the result is then stored already
	// stale because its payload may predate the mutation that raised the
	// invalidation.
	genMu sync.Mutex
	gens  map[string]*keyGeneration
}

type keyGeneration struct {
	key cachekeys.Key
	n   uint64
}

// NewQueryEngine creates the read engine over the given cache store.
func NewQueryEngine(cache domain.CacheStore, logger domain.Logger) *QueryEngine {
	if cache == nil {
		panic("cache store cannot be nil in NewQueryEngine")
	}
	if logger == nil {
		panic("logger cannot be nil in NewQueryEngine")
	}
	return &QueryEngine{
		cache:     cache,
		logger:    logger,
		locker:    newKeyLockManager(),
		clock:     time.Now,
		focusKeys: make(map[string]cachekeys.Key),
		gens:      make(map[string]*keyGeneration),
	}
}

// WithClock replaces the engine's clock. Used by tests to step through
// staleness windows without sleeping.
func (e *QueryEngine) WithClock(clock func() time.Time) *QueryEngine {
	e.clock = clock
	return e
}

// GetOrFetch returns the cached payload for key if fresh, otherwise runs
// fetch, stores the result, and returns it. Concurrent calls for the same key
// coalesce onto a single fetch.
func (e *QueryEngine) GetOrFetch(ctx context.Context, key cachekeys.Key, opts QueryOptions, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if opts.Enabled != nil && !opts.Enabled() {
		return nil, domain.ErrQueryDisabled
	}

	keyStr := key.String()
	ctx = context.WithValue(ctx, contextkeys.CacheKeyKey, keyStr)
	ctx = context.WithValue(ctx, contextkeys.ResourceKey, key.Resource)

	if opts.RefetchOnFocus {
		e.registerFocusKey(key)
	}

	// The key mutex spans check-fetch-store, so a reader arriving during an
	// in-flight fetch blocks here and then observes the stored entry.
	if waited := e.locker.Lock(keyStr); waited {
		metrics.CoalescedReadsTotal.WithLabelValues(key.Resource).Inc()
	}
	defer e.locker.Unlock(keyStr)

	entry, err := e.cache.Get(ctx, key)
	if err == nil && entry.Fresh(e.clock()) {
		metrics.CacheHitsTotal.WithLabelValues(key.Resource).Inc()
		e.logger.Debug(ctx, "Cache hit")
		return entry.Value, nil
	}
	if err != nil && err != domain.ErrCacheMiss {
		// Cache backend failure is not fatal for reads; fall through to fetch.
		e.logger.Warn(ctx, "Cache read failed, fetching from network", "error", err.Error())
	}

	metrics.CacheMissesTotal.WithLabelValues(key.Resource).Inc()
	gen := e.generation(key)
	value, fetchErr := fetch(ctx)
	if fetchErr != nil {
		metrics.FetchFailuresTotal.WithLabelValues(key.Resource).Inc()
		// The previous entry, stale or not, is left in place so the UI keeps
		// placeholder data next to the surfaced error.
		return nil, fetchErr
	}

	newEntry := &domain.CacheEntry{
		Value:     value,
		FetchedAt: e.clock(),
		TTL:       opts.TTL,
	}
	// The generation comparison and the store are one step under genMu, so an
	// invalidation cannot slip between them.
	e.genMu.Lock()
	if g := e.gens[keyStr]; g != nil && g.n != gen {
		newEntry.Stale = true
	}
	setErr := e.cache.Set(ctx, key, newEntry)
	e.genMu.Unlock()
	if setErr != nil {
		e.logger.Error(ctx, "Failed to store fetched value in cache", "error", setErr.Error())
	}
	return value, nil
}

// generation returns the current invalidation generation for a key,
// registering the key on first sight.
func (e *QueryEngine) generation(key cachekeys.Key) uint64 {
	e.genMu.Lock()
	defer e.genMu.Unlock()
	g, ok := e.gens[key.String()]
	if !ok {
		g = &keyGeneration{key: key}
		e.gens[key.String()] = g
	}
	return g.n
}

// bumpGenerations moves the generation of every key matching the predicate,
// making any overlapping in-flight fetch store its result stale.
func (e *QueryEngine) bumpGenerations(pred cachekeys.Predicate) {
	e.genMu.Lock()
	defer e.genMu.Unlock()
	for _, g := range e.gens {
		if pred(g.key) {
			g.n++
		}
	}
}

// Invalidate marks every entry matching the predicate stale. The next access
// of each affected key fetches from the network. Generations move before the
// store is touched so a fetch in flight for an affected key lands stale
// whichever side finishes first.
func (e *QueryEngine) Invalidate(ctx context.Context, pred cachekeys.Predicate) error {
	e.bumpGenerations(pred)
	count, err := e.cache.Invalidate(ctx, pred)
	if err != nil {
		return err
	}
	metrics.InvalidatedKeysTotal.Add(float64(count))
	return nil
}

// Clear drops the entire cache. Invoked on session destruction; no cache
// entry survives it, and overlapping fetches store their result stale.
func (e *QueryEngine) Clear(ctx context.Context) error {
	e.logger.Info(ctx, "Clearing entire query cache")
	e.bumpGenerations(cachekeys.Everything())
	return e.cache.Clear(ctx)
}

// NotifyFocus signals that the UI regained foreground focus. Every key
// registered with RefetchOnFocus is marked stale so its next access refetches.
func (e *QueryEngine) NotifyFocus(ctx context.Context) {
	e.focusMu.Lock()
	keys := make([]cachekeys.Key, 0, len(e.focusKeys))
	for _, k := range e.focusKeys {
		keys = append(keys, k)
	}
	e.focusMu.Unlock()

	for _, key := range keys {
		if err := e.Invalidate(ctx, cachekeys.Exact(key)); err != nil {
			e.logger.Warn(ctx, "Focus refetch invalidation failed", "key", key.String(), "error", err.Error())
		}
	}
}

func (e *QueryEngine) registerFocusKey(key cachekeys.Key) {
	e.focusMu.Lock()
	defer e.focusMu.Unlock()
	e.focusKeys[key.String()] = key
}

// Query is the typed read path: values round-trip through the cache as JSON.
func Query[T any](ctx context.Context, e *QueryEngine, key cachekeys.Key, opts QueryOptions, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := e.GetOrFetch(ctx, key, opts, func(ctx context.Context) ([]byte, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, err
	}
	return out, nil
}
