package board

import (
	"sync"
)

// Store holds the board state. Listeners run synchronously on the
// dispatching goroutine, after the lock is released.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []func(State)
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	state := s.state
	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
