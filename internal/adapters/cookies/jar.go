// Package cookies holds the client-readable cookie jar the session token and
// OTP correlators live in. The jar is in-process state modeled after browser
// cookies: named values with their own expiries, read fresh on every access.
package cookies

import (
	"sync"
	"time"
)

const tokenCookieName = "orza_token"

type cookie struct {
	value     string
	expiresAt time.Time
}

// Jar stores named values with per-value expiry. Safe for concurrent use.
type Jar struct {
	mu     sync.RWMutex
	values map[string]cookie
	now    func() time.Time
}

// NewJar creates an empty jar.
func NewJar() *Jar {
	return &Jar{
		values: make(map[string]cookie),
		now:    time.Now,
	}
}

// NewJarWithClock creates a jar with an injected clock. Used by tests to
// exercise expiry without sleeping.
func NewJarWithClock(now func() time.Time) *Jar {
	return &Jar{
		values: make(map[string]cookie),
		now:    now,
	}
}

// Set stores a value that expires after ttl.
func (j *Jar) Set(name, value string, ttl time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.values[name] = cookie{value: value, expiresAt: j.now().Add(ttl)}
}

// Get returns a value if present and unexpired. Expired values are dropped on
// read, matching browser cookie semantics.
func (j *Jar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.values[name]
	if !ok {
		return "", false
	}
	if j.now().After(c.expiresAt) {
		delete(j.values, name)
		return "", false
	}
	return c.value, true
}

// Clear removes a value regardless of expiry.
func (j *Jar) Clear(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.values, name)
}

// SessionStore implements domain.SessionStore on top of a Jar, holding the
// bearer token under a fixed cookie name.
type SessionStore struct {
	jar *Jar
}

// NewSessionStore creates a session store backed by the given jar.
func NewSessionStore(jar *Jar) *SessionStore {
	return &SessionStore{jar: jar}
}

func (s *SessionStore) Token() (string, bool) {
	return s.jar.Get(tokenCookieName)
}

func (s *SessionStore) Set(token string, ttl time.Duration) {
	s.jar.Set(tokenCookieName, token, ttl)
}

func (s *SessionStore) Clear() {
	s.jar.Clear(tokenCookieName)
}

// CorrelatorStore implements domain.CorrelatorStore on top of a Jar. Each
// correlator is its own short-lived cookie; abandoned flows expire on their own.
type CorrelatorStore struct {
	jar *Jar
}

// NewCorrelatorStore creates a correlator store backed by the given jar.
func NewCorrelatorStore(jar *Jar) *CorrelatorStore {
	return &CorrelatorStore{jar: jar}
}

func (s *CorrelatorStore) Set(name, value string, ttl time.Duration) {
	s.jar.Set(name, value, ttl)
}

func (s *CorrelatorStore) Get(name string) (string, bool) {
	return s.jar.Get(name)
}

func (s *CorrelatorStore) Clear(name string) {
	s.jar.Clear(name)
}
