package domain

import "sync"

// Ordered, append-only collection of coordinates the user added during a session.
// Insertion order is preserved for listing.
type LocationStore struct {
	mu     sync.RWMutex
	coords []Coordinates
}

func NewLocationStore() *LocationStore {
	return &LocationStore{}
}

// Append a coordinate to the end of the store.
func (s *LocationStore) Append(c Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coords = append(s.coords, c)
}

// All returns a copy of the stored coordinates in insertion order.
func (s *LocationStore) All() []Coordinates {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Coordinates, len(s.coords))
	copy(out, s.coords)
	return out
}

func (s *LocationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.coords)
}

// Remove all coordinates.
func (s *LocationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coords = nil
}
