// Package memory is an in-process snapshotter used by tests and the
// "memory" data backend. State is lost when the process exits.
package memory

import (
	"context"
	"sync"

	"kharcha/internal/core"
)

type Store struct {
	mu     sync.Mutex
	ledger core.Ledger
	exists bool
	saves  int
}

func New() *Store {
	return &Store{}
}

// Save replaces the held snapshot with a copy of l.
func (s *Store) Save(_ context.Context, l core.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = l.Clone()
	s.exists = true
	s.saves++
	return nil
}

// Load returns a copy of the held snapshot, or ok=false when nothing has
// been saved yet.
func (s *Store) Load(_ context.Context) (core.Ledger, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return core.Ledger{}, false, nil
	}
	return s.ledger.Clone(), true, nil
}

// Saves reports how many snapshot writes have landed.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
