// Package memory provides an in-process registry.Store.
package memory

import (
	"context"
	"sync"

	"github.com/wolever/automaton"
	"github.com/wolever/automaton/registry"
)

// Store implements registry.Store in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*automaton.Automaton
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*automaton.Automaton),
	}
}

// Save stores a copy of ``a``.
func (s *Store) Save(ctx context.Context, name string, a *automaton.Automaton) error {
	c := a.Copy()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = c
	return nil
}

// Load returns a copy so callers can't mutate the stored automaton.
func (s *Store) Load(ctx context.Context, name string) (*automaton.Automaton, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[name]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return a.Copy(), nil
}

// Delete removes ``name``.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	return names, nil
}
