// Package cvars mirrors the host's console variables.
package cvars

import (
	"math"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// DefaultFreezeTimeCvar is the engine variable holding freeze time in seconds.
const DefaultFreezeTimeCvar = "mp_freezetime"

// Store holds the last reported value of each console variable. Names are
// case-insensitive.
type Store struct {
	mu         sync.RWMutex
	values     map[string]string
	freezeName string
}

// NewStore creates a store reading freeze time from freezeName, or
// mp_freezetime when empty.
func NewStore(freezeName string) *Store {
	if freezeName == "" {
		freezeName = DefaultFreezeTimeCvar
	}
	return &Store{
		values:     make(map[string]string),
		freezeName: strings.ToLower(freezeName),
	}
}

// Set records a console variable value.
func (s *Store) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[strings.ToLower(name)] = strings.TrimSpace(value)
}

// Get returns the raw value of name.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[strings.ToLower(name)]
	return v, ok
}

// Float returns name coerced to a number.
func (s *Store) Float(name string) (float64, bool) {
	raw, ok := s.Get(name)
	if !ok {
		return 0, false
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FreezeTime reports the configured freeze time variable. Missing,
// non-numeric and non-finite values are unavailable. Negative values read as 0.
func (s *Store) FreezeTime() (float64, bool) {
	v, ok := s.Float(s.freezeName)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return max(v, 0), true
}

// Snapshot returns a copy of every known variable.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
