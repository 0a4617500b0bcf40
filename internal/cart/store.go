package cart

import (
	"sync"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

// Store holds the active snapshot and the identity it belongs to. All changes go
// through Dispatch.
type Store struct {
	mu       sync.RWMutex
	state    domain.CartSnapshot
	identity domain.Identity
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Dispatch(a Action) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state.Clone()
}

func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Store) SetIdentity(id domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}
