package cache_test

import (
	"encoding/json"
	"testing"

	"github.com/illmade-knight/go-vacario/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntries_MarshalJSON(t *testing.T) {
	t.Run("Encodes ordered pairs", func(t *testing.T) {
		entries := cache.Entries{
			{Key: "v2", Value: json.RawMessage(`["x"]`)},
			{Key: "v1", Value: json.RawMessage(`null`)},
		}

		data, err := json.Marshal(entries)

		require.NoError(t, err)
		assert.JSONEq(t, `[["v2",["x"]],["v1",null]]`, string(data))
	})

	t.Run("Nil encodes as empty array", func(t *testing.T) {
		var entries cache.Entries

		data, err := json.Marshal(entries)

		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})
}

func TestEntries_UnmarshalJSON(t *testing.T) {
	t.Run("Preserves order", func(t *testing.T) {
		var entries cache.Entries
		require.NoError(t, json.Unmarshal([]byte(`[["c",3],["a",1],["b",2]]`), &entries))
		assert.Equal(t, []string{"c", "a", "b"}, entries.Keys())
	})

	t.Run("Duplicate keys keep first position and last value", func(t *testing.T) {
		var entries cache.Entries
		require.NoError(t, json.Unmarshal([]byte(`[["a",1],["b",2],["a",3]]`), &entries))
		assert.Equal(t, cache.Entries{
			{Key: "a", Value: json.RawMessage(`3`)},
			{Key: "b", Value: json.RawMessage(`2`)},
		}, entries)
	})

	t.Run("Values are carried verbatim", func(t *testing.T) {
		payload := `[["a1",{"id":"a1","vacation_id":"v7","extra":[1,2]}]]`

		var entries cache.Entries
		require.NoError(t, json.Unmarshal([]byte(payload), &entries))
		data, err := json.Marshal(entries)

		require.NoError(t, err)
		assert.JSONEq(t, payload, string(data))
	})

	t.Run("Rejects malformed payloads", func(t *testing.T) {
		cases := map[string]string{
			"not an array":   `{"a":1}`,
			"short pair":     `[["a"]]`,
			"long pair":      `[["a",1,2]]`,
			"non string key": `[[1,1]]`,
		}
		for name, payload := range cases {
			t.Run(name, func(t *testing.T) {
				var entries cache.Entries
				assert.Error(t, json.Unmarshal([]byte(payload), &entries))
			})
		}
	})
}
