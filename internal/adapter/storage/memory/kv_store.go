// Package memory provides an in-process KeyValueStore. It backs the default
// single-node deployment and doubles as the persistence fake in tests.
package memory

import (
	"context"
	"sync"
)

// KVStore implements ports.KeyValueStore over a mutex-guarded map.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore creates an empty in-memory store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

// Get returns the stored value, or nil, nil when the key is absent.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Set stores a value under the key, replacing any previous value.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Ping implements ports.HealthChecker. The in-memory store is always healthy.
func (s *KVStore) Ping(_ context.Context) error { return nil }

// Name returns the dependency name.
func (s *KVStore) Name() string { return "memory" }
