// Package storage defines the key-addressed document port backing the vault.
package storage

import (
	"context"
	"sync"
)

// Store reads and writes opaque document payloads by key. Writes replace the
// whole payload; there is no partial update.
type Store interface {
	// Read returns the payload for key. The boolean reports presence; an
	// absent key is not an error.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	// Write replaces the payload for key.
	Write(ctx context.Context, key string, data []byte) error
}

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Read returns the stored payload for key.
func (s *MemoryStore) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Write replaces the stored payload for key.
func (s *MemoryStore) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.docs[key] = stored
	return nil
}
