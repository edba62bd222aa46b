package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss is returned when a key has no entry, whether it was never
	// cached or has been evicted. Callers fall back to their source on it.
	ErrCacheMiss = errors.New("cache miss")
	// ErrEmptyKey is returned when an operation is called with an empty key.
	ErrEmptyKey = errors.New("cache key must not be empty")
)

// DecodeError reports a namespace payload that is not a valid [[key, value], ...]
// list, or, when Key is set, a single entry whose value does not decode.
type DecodeError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("decode entry '%s' in cache namespace '%s': %v", e.Key, e.Namespace, e.Err)
	}
	return fmt.Sprintf("decode cache namespace '%s': %v", e.Namespace, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
