package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache so that every key gets a namespace prefix. A
// shared backend (one Redis serving several deployments) uses it to keep
// entries apart without callers threading prefixes by hand.
//
// Example usage:
//
//	shared, _ := cache.NewRedisCache("localhost:6379", "", 0)
//	c := cache.NewScoped(shared, "topowidth")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps cache so all keys live under namespace. An empty
// namespace returns the inner cache unchanged.
func NewScoped(inner Cache, namespace string) Cache {
	if namespace == "" {
		return inner
	}
	return &Scoped{inner: inner, prefix: namespace + ":"}
}

// Get retrieves the namespaced key from the inner cache.
func (c *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores under the namespaced key in the inner cache.
func (c *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the namespaced key from the inner cache.
func (c *Scoped) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the inner cache.
func (c *Scoped) Close() error {
	return c.inner.Close()
}

// Ensure Scoped implements Cache.
var _ Cache = (*Scoped)(nil)
