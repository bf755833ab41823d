package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/session"
)

// Store implements session.Store in memory.
// Entries are kept by pointer: a screening session is live state, not a serialisable
// snapshot, so isolation comes from the Manager's per-session lock.
// Safe for concurrent use.
type Store struct {
	data map[string]*session.Entry
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*session.Entry),
	}
}

// Save stores the entry under its session ID.
func (s *Store) Save(ctx context.Context, e *session.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[e.ID()] = e
	return nil
}

// Load retrieves an entry.
func (s *Store) Load(ctx context.Context, sessionID string) (*session.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// Delete removes the entry.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active session IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
