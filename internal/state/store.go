package state

import "sync"

// Store holds the current AppState.  It is safe for concurrent use;
// subscribers are called after each Dispatch, outside the lock, in
// subscription order.
type Store struct {
	mu     sync.Mutex
	state  AppState
	nextID int
	subs   map[int]func(AppState)
	order  []int
}

func NewStore(initial AppState) *Store {
	return &Store{state: initial, subs: make(map[int]func(AppState))}
}

// State returns a snapshot of the current state.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and returns the new state.
func (s *Store) Dispatch(a Action) AppState {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	fns := make([]func(AppState), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}
