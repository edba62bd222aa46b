// Package kvstore provides the byte-oriented key-value stores that cache
// namespaces are persisted through.
package kvstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when a key has never been written or has been deleted.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a whole-value key-value store. Each key holds one opaque byte payload
// that is always read and written in full.
type Store interface {
	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the payload stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	io.Closer
}
