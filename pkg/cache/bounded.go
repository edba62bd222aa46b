package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/rs/zerolog"
)

// DefaultCapacity is the number of entries a cache keeps when none is configured.
const DefaultCapacity = 5

// Config holds the configuration for a BoundedCache.
type Config struct {
	// Namespace is the store key the whole cache is persisted under.
	Namespace string
	// Capacity is the maximum number of entries. Zero means DefaultCapacity;
	// negative values are rejected.
	Capacity int
	// StrictDecode makes a payload that is not a [[key, value], ...] list fail with
	// a *DecodeError instead of being discarded and reinitialized.
	StrictDecode bool
}

// namespaceLocks serializes read-modify-write cycles per namespace across every
// BoundedCache in the process.
var namespaceLocks sync.Map // map[string]*sync.Mutex

func lockFor(namespace string) *sync.Mutex {
	mu, _ := namespaceLocks.LoadOrStore(namespace, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// BoundedCache is a generic cache with a fixed capacity and first-in-first-out
// eviction. It holds no entries in memory: every call loads the namespace
// payload from the store, and every Set writes the full list back.
//
// Reads never change eviction order, and overwriting an existing key keeps its
// original position. When a new key is inserted into a full cache the oldest
// inserted entry is dropped.
type BoundedCache[V any] struct {
	namespace string
	capacity  int
	strict    bool
	store     kvstore.Store
	logger    zerolog.Logger
	mu        *sync.Mutex
}

var _ Cache[struct{}] = (*BoundedCache[struct{}])(nil)

// NewBoundedCache creates a cache persisted under cfg.Namespace in store.
func NewBoundedCache[V any](cfg *Config, store kvstore.Store, logger zerolog.Logger) (*BoundedCache[V], error) {
	if cfg == nil || cfg.Namespace == "" {
		return nil, errors.New("cache namespace is required")
	}
	if store == nil {
		return nil, errors.New("cache store cannot be nil")
	}
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must be greater than 0, got %d", capacity)
	}

	return &BoundedCache[V]{
		namespace: cfg.Namespace,
		capacity:  capacity,
		strict:    cfg.StrictDecode,
		store:     store,
		logger:    logger.With().Str("component", "BoundedCache").Str("namespace", cfg.Namespace).Logger(),
		mu:        lockFor(cfg.Namespace),
	}, nil
}

// Namespace returns the store key the cache is persisted under.
func (c *BoundedCache[V]) Namespace() string {
	return c.namespace
}

// Capacity returns the maximum number of entries the cache keeps.
func (c *BoundedCache[V]) Capacity() int {
	return c.capacity
}

// Get retrieves the value stored for key. It does not modify the cache.
func (c *BoundedCache[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrEmptyKey
	}

	c.mu.Lock()
	entries, err := c.load(ctx)
	c.mu.Unlock()
	if err != nil {
		return zero, err
	}

	raw, ok := entries.get(key)
	if !ok {
		c.logger.Debug().Str("key", key).Msg("Cache miss.")
		return zero, fmt.Errorf("key '%s' not found in %s: %w", key, c.namespace, ErrCacheMiss)
	}

	var value V
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, &DecodeError{Namespace: c.namespace, Key: key, Err: err}
	}
	c.logger.Debug().Str("key", key).Msg("Cache hit.")
	return value, nil
}

// Set stores value for key. An existing key is updated in place; a new key is
// appended and, if the cache is then over capacity, the oldest entry is evicted.
func (c *BoundedCache[V]) Set(ctx context.Context, key string, value V) error {
	if key == "" {
		return ErrEmptyKey
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for key '%s' in %s: %w", key, c.namespace, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return err
	}

	if entries.put(key, raw) && len(entries) > c.capacity {
		evicted := entries.removeOldest()
		c.logger.Debug().Str("key", key).Str("evicted_key", evicted.Key).Msg("Cache full, evicted oldest entry.")
	}

	return c.save(ctx, entries)
}

// Len returns the number of stored entries.
func (c *BoundedCache[V]) Len(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Keys returns the stored keys, oldest first.
func (c *BoundedCache[V]) Keys(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return entries.Keys(), nil
}

// Clear removes the whole namespace from the store.
func (c *BoundedCache[V]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, c.namespace); err != nil {
		return fmt.Errorf("clear cache namespace %s: %w", c.namespace, err)
	}
	c.logger.Info().Msg("Cache cleared.")
	return nil
}

// load reads and splits the namespace payload into its entries. Values stay
// encoded; only the entry a caller asks for is decoded into V. It must be called
// with c.mu held. A missing or empty payload is an empty cache.
func (c *BoundedCache[V]) load(ctx context.Context) (Entries, error) {
	data, err := c.store.Get(ctx, c.namespace)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cache namespace %s: %w", c.namespace, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries Entries
	if err := json.Unmarshal(data, &entries); err != nil {
		decodeErr := &DecodeError{Namespace: c.namespace, Err: err}
		if c.strict {
			return nil, decodeErr
		}
		c.logger.Warn().Err(decodeErr).Msg("Discarding corrupt cache payload; cache reinitialized as empty.")
		return nil, nil
	}
	return entries, nil
}

// save encodes the full entry list and writes it back in one store write.
func (c *BoundedCache[V]) save(ctx context.Context, entries Entries) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cache namespace %s: %w", c.namespace, err)
	}
	if err := c.store.Set(ctx, c.namespace, data); err != nil {
		return fmt.Errorf("save cache namespace %s: %w", c.namespace, err)
	}
	return nil
}
