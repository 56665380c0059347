package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for storing (string, string) pairs. Keys are compared
// case-insensitively, which makes it suitable for headers. It acts as a map but uses linear
// search instead, which is more efficient on the low amount of entries a request usually has.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain unordered
// pairs.
func NewFromMap(m map[string][]string) *Storage {
	kv := NewPrealloc(len(m))

	for key, values := range m {
		for _, value := range values {
			kv.Add(key, value)
		}
	}

	return kv
}

// Add adds a new pair of key and value.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Set replaces all the values of the key by a single one.
func (s *Storage) Set(key, value string) *Storage {
	return s.Delete(key).Add(key, value)
}

// Delete removes all the entries of the key, preserving the order of the rest.
func (s *Storage) Delete(key string) *Storage {
	n := 0
	for _, pair := range s.pairs {
		if !strcomp.EqualFold(pair.Key, key) {
			s.pairs[n] = pair
			n++
		}
	}

	s.pairs = s.pairs[:n]
	return s
}

// Value returns the first value, corresponding to the key. Otherwise, empty string is returned
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or custom value, defined
// via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values returns all the values of the key in the order of insertion. Returns nil if the
// key doesn't exist. The returned slice is owned by the caller.
func (s *Storage) Values(key string) (values []string) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			values = append(values, pair.Value)
		}
	}

	return values
}

// Keys returns all unique presented keys, keeping the first-seen spelling.
func (s *Storage) Keys() []string {
	var keys []string

	for _, pair := range s.pairs {
		if !contains(keys, pair.Key) {
			keys = append(keys, pair.Key)
		}
	}

	return keys
}

// Pairs returns an iterator over the pairs.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return s.Len() == 0
}

// Map converts the storage into a map. Keys are taken in their first-seen spelling.
func (s *Storage) Map() map[string][]string {
	m := make(map[string][]string, len(s.pairs))
	for _, key := range s.Keys() {
		m[key] = s.Values(key)
	}

	return m
}

// Clone creates a deep copy, which may be used later or stored somewhere safely.
func (s *Storage) Clone() *Storage {
	return &Storage{
		pairs: clone(s.pairs),
	}
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}

func contains(collection []string, key string) bool {
	for _, element := range collection {
		if strcomp.EqualFold(element, key) {
			return true
		}
	}

	return false
}

func clone[T any](source []T) []T {
	if len(source) == 0 {
		return nil
	}

	newSlice := make([]T, len(source))
	copy(newSlice, source)

	return newSlice
}
