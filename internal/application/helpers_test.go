package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/cookies"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/memcache"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Fatal(context.Context, string, ...any) {}
func (l nopLogger) With(...any) domain.Logger           { return l }

func testConfig() config.Provider {
	return config.Static(&config.Config{
		API: config.APIConfig{BaseURL: "http://orza.test/api", TimeoutSeconds: 5},
		Cache: config.CacheConfig{
			Backend:                  "memory",
			ShortTTLSeconds:          30,
			MediumTTLSeconds:         300,
			LongTTLSeconds:           600,
			NotificationsPollSeconds: 30,
		},
		Session: config.SessionConfig{
			LoginTTLHours:        24,
			OAuthTTLHours:        168,
			CorrelatorTTLMinutes: 10,
		},
		App: config.AppConfig{ServiceName: "orza-sync-test", DefaultPageLimit: 10},
	})
}

// transportCall records one request the fake transport received.
type transportCall struct {
	Method string
	Path   string
	Opts   domain.RequestOptions
}

// fakeTransport implements domain.Transport with a programmable handler.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []transportCall
	handler func(method, path string, opts domain.RequestOptions) (*domain.Envelope, error)
}

func (f *fakeTransport) Request(_ context.Context, method, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, transportCall{Method: method, Path: path, Opts: opts})
	f.mu.Unlock()
	if f.handler == nil {
		return successEnvelope(nil, ""), nil
	}
	return f.handler(method, path, opts)
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) lastCall() transportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func successEnvelope(data any, message string) *domain.Envelope {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			panic(err)
		}
		raw = encoded
	}
	return &domain.Envelope{Status: "success", Message: message, Data: raw}
}

// recordingNotifier captures the feedback stream for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

// harness assembles the orchestration core over in-memory adapters and a fake
// transport, mirroring the bootstrap wiring.
type harness struct {
	clock       *fakeClock
	jar         *cookies.Jar
	session     *cookies.SessionStore
	correlators *cookies.CorrelatorStore
	store       *memcache.Store
	engine      *QueryEngine
	notifier    *recordingNotifier
	runner      *MutationRunner
	transport   *fakeTransport
	api         *orzaapi.API
	cfg         config.Provider
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	jar := cookies.NewJarWithClock(clock.Now)
	store := memcache.New(nopLogger{})
	engine := NewQueryEngine(store, nopLogger{}).WithClock(clock.Now)
	notifier := &recordingNotifier{}
	runner := NewMutationRunner(engine, notifier, domain.IndonesianCatalog{}, nopLogger{})
	transport := &fakeTransport{}
	api := orzaapi.New(transport, nopLogger{})
	return &harness{
		clock:       clock,
		jar:         jar,
		session:     cookies.NewSessionStore(jar),
		correlators: cookies.NewCorrelatorStore(jar),
		store:       store,
		engine:      engine,
		notifier:    notifier,
		runner:      runner,
		transport:   transport,
		api:         api,
		cfg:         testConfig(),
	}
}

// entryStale reads the raw cache entry and reports its staleness flag.
func (h *harness) entryStale(t *testing.T, key cachekeys.Key) bool {
	t.Helper()
	entry, err := h.store.Get(context.Background(), key)
	require.NoError(t, err)
	return entry.Stale
}

// seedEntry plants a fresh cache entry directly in the store.
func (h *harness) seedEntry(t *testing.T, key cachekeys.Key, value any, ttl time.Duration) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	err = h.store.Set(context.Background(), key, &domain.CacheEntry{
		Value:     raw,
		FetchedAt: h.clock.Now(),
		TTL:       ttl,
	})
	require.NoError(t, err)
}
