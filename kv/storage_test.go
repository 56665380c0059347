package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Add("Foo", "bar").
			Add("Hello", "World").
			Add("Lorem", "ipsum").
			Add("hello", "Pavlo")
	}

	t.Run("case insensitive lookup", func(t *testing.T) {
		kv := getHeaders()
		require.Equal(t, "World", kv.Value("HELLO"))
		require.Equal(t, []string{"World", "Pavlo"}, kv.Values("hello"))
		require.True(t, kv.Has("foo"))
		require.False(t, kv.Has("bar"))
		require.Equal(t, "default", kv.ValueOr("missing", "default"))
	})

	t.Run("delete", func(t *testing.T) {
		kv := getHeaders().Delete("HELLO")

		require.Equal(t, 2, kv.Len())
		require.Equal(t, []string{"Foo", "Lorem"}, kv.Keys())
		require.Nil(t, kv.Values("hello"))
	})

	t.Run("set", func(t *testing.T) {
		kv := getHeaders().Set("HELLO", "no more Pavlo")

		require.Equal(t, 3, kv.Len())
		require.Equal(t, []string{"no more Pavlo"}, kv.Values("hello"))
	})

	t.Run("keys keep first spelling", func(t *testing.T) {
		require.Equal(t, []string{"Foo", "Hello", "Lorem"}, getHeaders().Keys())
	})

	t.Run("map", func(t *testing.T) {
		m := getHeaders().Map()
		require.Equal(t, []string{"World", "Pavlo"}, m["Hello"])
		require.Len(t, m, 3)
	})

	t.Run("clone is independent", func(t *testing.T) {
		original := getHeaders()
		cloned := original.Clone()
		original.Clear()

		require.True(t, original.Empty())
		require.Equal(t, 4, cloned.Len())
	})

	t.Run("from map", func(t *testing.T) {
		kv := NewFromMap(map[string][]string{
			"Accept": {"text/html", "application/json"},
		})

		require.Equal(t, []string{"text/html", "application/json"}, kv.Values("accept"))
	})

	t.Run("pairs iteration stops early", func(t *testing.T) {
		var seen int
		for range getHeaders().Pairs() {
			seen++
			if seen == 2 {
				break
			}
		}

		require.Equal(t, 2, seen)
	})
}
