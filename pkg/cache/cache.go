// Package cache provides a size-bounded, insertion-ordered cache whose whole
// state is persisted as a single JSON document in a key-value store.
package cache

import "context"

// Cache is the narrow interface screens and services use to read and write
// previously fetched domain objects.
type Cache[V any] interface {
	// Get retrieves an item, or an error wrapping ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set adds or replaces an item.
	Set(ctx context.Context, key string, value V) error
}
