package service

import (
	"context"
	"sync"

	"github.com/goliatone/go-itemstore/item"
)

// mockStore keeps the collection in memory and records every call.
type mockStore struct {
	mu         sync.Mutex
	calls      []string
	items      []item.Item
	loadError  error
	persistErr error
}

func newMockStore(items ...item.Item) *mockStore {
	return &mockStore{items: items}
}

func (m *mockStore) recordCall(method string) {
	m.calls = append(m.calls, method)
}

func (m *mockStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockStore) Load(ctx context.Context) ([]item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Load")
	if m.loadError != nil {
		return nil, m.loadError
	}
	return append([]item.Item{}, m.items...), nil
}

func (m *mockStore) Persist(ctx context.Context, items []item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Persist")
	if m.persistErr != nil {
		return m.persistErr
	}
	m.items = append([]item.Item{}, items...)
	return nil
}

func (m *mockStore) snapshot() []item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]item.Item{}, m.items...)
}

// mockCache is a recording map backed cache.
type mockCache struct {
	mu            sync.Mutex
	calls         []string
	entries       map[string]item.Aggregate
	getError      error
	setError      error
	invalidateErr error
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]item.Aggregate{}}
}

func (m *mockCache) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockCache) Get(ctx context.Context, key string) (item.Aggregate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Get:"+key)
	if m.getError != nil {
		return item.Aggregate{}, false, m.getError
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value item.Aggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Set:"+key)
	if m.setError != nil {
		return m.setError
	}
	m.entries[key] = value
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.calls = append(m.calls, "Invalidate:"+k)
	}
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *mockCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}
