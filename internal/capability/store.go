package capability

import "sync"

// Store holds the profile currently in effect and swaps it atomically when
// the profile file reloads. Readers always see a complete profile, never a
// partially applied one.
type Store struct {
	mu      sync.RWMutex
	profile Profile
}

// NewStore returns a store holding the given initial profile.
func NewStore(initial Profile) *Store {
	return &Store{profile: initial}
}

// Current returns the profile in effect.
func (s *Store) Current() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Swap replaces the profile in effect.
func (s *Store) Swap(p Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}
