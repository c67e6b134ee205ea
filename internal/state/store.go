package state

import "sync"

// Store holds the current AppState and serializes writes: exactly one
// dispatch commits at a time. Because the reducer is pure and every
// snapshot is immutable, readers never need coordination beyond taking
// a snapshot.
type Store struct {
	mu    sync.Mutex
	state AppState
}

func NewStore(initial AppState) *Store {
	return &Store{state: initial}
}

// Dispatch reduces the action into a new state version.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
}

// State returns the current immutable snapshot.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
