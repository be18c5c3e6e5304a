// Package snapshot holds the in-memory, per-session copy of remote data
package snapshot

import (
	"sort"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
)

// Store implements domain.SnapshotRepository with a mutex-guarded map
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]*domain.Snapshot),
	}
}

// Get returns the current snapshot for a session
func (s *Store) Get(sessionKey string) (*domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionKey]
	return snap, ok
}

// Replace swaps the session's snapshot for a new one
func (s *Store) Replace(sessionKey string, snap *domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[sessionKey] = snap
}

// Invalidate drops the session's snapshot so the next read refetches
func (s *Store) Invalidate(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionKey)
}

// EvictOlderThan drops every snapshot fetched before cutoff and returns the
// evicted session keys in sorted order
func (s *Store) EvictOlderThan(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for key, snap := range s.snapshots {
		if snap.FetchedAt.Before(cutoff) {
			delete(s.snapshots, key)
			evicted = append(evicted, key)
		}
	}
	sort.Strings(evicted)
	return evicted
}

// Len returns the number of cached sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
