package auth

import (
	"context"
	"sync"
	"time"
)

// pruneEvery controls how many writes pass between sweeps of expired entries
const pruneEvery = 128

type memorySession struct {
	principal Principal
	expiry    time.Time
}

// MemorySessionStore keeps sessions in process memory. Sessions are lost on
// restart and are not shared between instances.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	writes   int
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (Principal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return Anonymous(), false, nil
	}
	if !s.now().Before(entry.expiry) {
		delete(s.sessions, id)
		return Anonymous(), false, nil
	}
	return entry.principal, true, nil
}

func (s *MemorySessionStore) Save(_ context.Context, id string, p Principal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sessions[id] = memorySession{principal: p, expiry: now.Add(ttl)}

	s.writes++
	if s.writes%pruneEvery == 0 {
		s.pruneLocked(now)
	}
	return nil
}

// PruneExpired removes every expired session and reports how many were dropped
func (s *MemorySessionStore) PruneExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked(s.now()), nil
}

func (s *MemorySessionStore) pruneLocked(now time.Time) int64 {
	var removed int64
	for key, entry := range s.sessions {
		if !now.Before(entry.expiry) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired ones included
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
