// Package session tracks the active identity per client storage partition.
// Partitions are the server-side equivalent of one browser tab: each holds at
// most one active identity, independently of every other partition, and none
// of it survives a process restart.
package session

import (
	"strings"
	"sync"

	"github.com/allease/allease-core/internal/vault"
)

// Store maps partition identifiers to the active normalized email.
type Store struct {
	mu     sync.RWMutex
	active map[string]string
}

// NewStore constructs an empty session Store.
func NewStore() *Store {
	return &Store{active: make(map[string]string)}
}

// Current returns the active normalized email for partition, if any.
func (s *Store) Current(partition string) (string, bool) {
	partition = strings.TrimSpace(partition)
	if partition == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.active[partition]
	return email, ok
}

// SetCurrent records email as the active identity for partition. The email
// is normalized before storage.
func (s *Store) SetCurrent(partition, email string) {
	partition = strings.TrimSpace(partition)
	if partition == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[partition] = vault.NormalizeEmail(email)
}

// Clear removes the active identity for partition.
func (s *Store) Clear(partition string) {
	partition = strings.TrimSpace(partition)
	if partition == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, partition)
}
