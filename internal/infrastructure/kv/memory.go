package kv

import (
	"context"
	"sync"
)

// MemoryStore is a simple in-memory key-value backend. It satisfies the
// store.Backend contract for development and tests; durability is per-process.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates a new in-memory backend
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
	}
}

// Get retrieves a value by key
func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	value, ok := ms.items[key]
	if !ok {
		return nil, false, nil
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Set stores a key-value pair
func (ms *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	ms.items[key] = cp
	return nil
}
