package contextkeys

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for storing and retrieving a request ID.
	RequestIDKey contextKey = "request_id"

	// UserIDKey is the context key for storing and retrieving the signed-in user's ID.
	UserIDKey contextKey = "user_id"

	// ResourceKey is the context key for the resource name a sync operation targets.
	ResourceKey contextKey = "resource"

	// CacheKeyKey is the context key for the rendered cache key of the active read.
	CacheKeyKey contextKey = "cache_key"
)

// String makes contextKey satisfy fmt.Stringer to help with debugging/logging of keys themselves.
func (c contextKey) String() string {
	return string(c)
}
