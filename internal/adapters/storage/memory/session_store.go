package memory

import (
	"sync"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

// SessionStore keeps live session values in memory, keyed by session id.
// Nothing survives a restart.
type SessionStore[V any] struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]V
}

func NewSessionStore[V any]() *SessionStore[V] {
	return &SessionStore[V]{
		sessions: make(map[domain.SessionID]V),
	}
}

func (s *SessionStore[V]) Create(id domain.SessionID, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return domain.ErrSessionExists
	}

	s.sessions[id] = v
	return nil
}

func (s *SessionStore[V]) Get(id domain.SessionID) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sessions[id]
	if !ok {
		var zero V
		return zero, domain.ErrSessionNotFound
	}

	return v, nil
}

func (s *SessionStore[V]) Delete(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return domain.ErrSessionNotFound
	}

	delete(s.sessions, id)
	return nil
}

func (s *SessionStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
