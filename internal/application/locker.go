package application

import "sync"

// keyLockManager manages a map of mutexes, one per cache key. Holding a key's
// mutex across check-fetch-store is what guarantees at most one in-flight
// fetch per key: a concurrent read for the same key blocks here, then finds
// the freshly stored entry and attaches to that result instead of issuing a
// duplicate call.
type keyLockManager struct {
	locks sync.Map // map[string]*sync.Mutex
}

func newKeyLockManager() *keyLockManager {
	return &keyLockManager{}
}

// Lock acquires the mutex associated with the given cache key, creating it on
// first use. Blocks until the lock is acquired, and reports whether the call
// had to wait behind another holder.
func (m *keyLockManager) Lock(key string) bool {
	if key == "" {
		return false
	}
	// LoadOrStore ensures that only one mutex is created per key.
	mutex, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu := mutex.(*sync.Mutex)
	if mu.TryLock() {
		return false
	}
	mu.Lock()
	return true
}

// Unlock releases the mutex associated with the given cache key.
// Typically used with defer: `defer locker.Unlock(key)`.
func (m *keyLockManager) Unlock(key string) {
	if key == "" {
		return
	}
	if mutex, ok := m.locks.Load(key); ok {
		mutex.(*sync.Mutex).Unlock()
	}
}
