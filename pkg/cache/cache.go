// Package cache stores solver output keyed by the exact instance that was
// handed to the solver. Exact decomposition runs can take minutes, and the
// encoding is deterministic, so a byte-identical instance can always be
// answered from a previous run.
//
// Three backends implement [Cache]: a file cache for CLI usage, a Redis
// cache for shared deployments, and a null cache for disabling caching
// altogether. [NewScoped] namespaces any of them.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. A miss is (nil, false, nil) - errors are
	// reserved for backend trouble.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
