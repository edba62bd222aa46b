package cache

import (
	"encoding/json"
	"fmt"
)

// Entry is one key/value pair held by a cache. Value is kept in its encoded
// form so entries written by other clients are carried through untouched.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Entries is an insertion-ordered list of entries, oldest first.
//
// It encodes as a JSON array of two-element arrays, [[key, value], ...], which is
// the layout persisted under every cache namespace. Order is significant: the
// first element is the next one to be evicted.
type Entries []Entry

// MarshalJSON encodes the entries as [[key, value], ...]. A nil list encodes as [].
func (e Entries) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(e))
	for i, entry := range e {
		value := entry.Value
		if value == nil {
			value = json.RawMessage("null")
		}
		pairs[i] = [2]any{entry.Key, value}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes [[key, value], ...]. Values are not interpreted. A repeated
// key keeps the position of its first occurrence and the value of its last.
func (e *Entries) UnmarshalJSON(data []byte) error {
	var pairs [][]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}

	decoded := make(Entries, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return fmt.Errorf("entry %d: expected [key, value] pair, got %d elements", i, len(pair))
		}
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return fmt.Errorf("entry %d: key is not a string: %w", i, err)
		}
		decoded.put(key, pair[1])
	}
	*e = decoded
	return nil
}

// Keys returns the keys oldest first.
func (e Entries) Keys() []string {
	keys := make([]string, len(e))
	for i, entry := range e {
		keys[i] = entry.Key
	}
	return keys
}

func (e Entries) index(key string) int {
	for i, entry := range e {
		if entry.Key == key {
			return i
		}
	}
	return -1
}

func (e Entries) get(key string) (json.RawMessage, bool) {
	if i := e.index(key); i >= 0 {
		return e[i].Value, true
	}
	return nil, false
}

// put overwrites an existing key in place or appends a new one.
// It reports whether the key was newly inserted.
func (e *Entries) put(key string, value json.RawMessage) bool {
	if i := e.index(key); i >= 0 {
		(*e)[i].Value = value
		return false
	}
	*e = append(*e, Entry{Key: key, Value: value})
	return true
}

// removeOldest drops the first entry. It must only be called on a non-empty list.
func (e *Entries) removeOldest() Entry {
	oldest := (*e)[0]
	*e = (*e)[1:]
	return oldest
}
