package cacheinfra

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryCache keeps entries in a process-local concurrent map. Entries never
// expire; they live until invalidated or until the process exits.
type MemoryCache[V any] struct {
	entries *xsync.MapOf[string, V]
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{entries: xsync.NewMapOf[string, V]()}
}

func (m *MemoryCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	value, ok := m.entries.Load(key)
	return value, ok, nil
}

func (m *MemoryCache[V]) Set(ctx context.Context, key string, value V) error {
	m.entries.Store(key, value)
	return nil
}

// Invalidate removes the given keys, or every entry when no key is given.
func (m *MemoryCache[V]) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		m.entries.Range(func(key string, _ V) bool {
			m.entries.Delete(key)
			return true
		})
		return nil
	}

	for _, key := range keys {
		m.entries.Delete(key)
	}
	return nil
}

// Len returns the number of entries currently held.
func (m *MemoryCache[V]) Len() int {
	return m.entries.Size()
}
