// Package memory holds slots in process memory. It backs tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aglmct/tracker/internal/core"
)

// Store is an in-memory implementation of core.Storage.
type Store struct {
	mu        sync.RWMutex
	slots     map[string][]byte
	failSaves error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// FailSaves makes subsequent Save calls fail with err. Pass nil to restore.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves = err
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if err := core.ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSlotNotFound, key)
	}
	return slices.Clone(data), nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := core.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSaves != nil {
		return s.failSaves
	}
	s.slots[key] = slices.Clone(data)
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.slots)), nil
}
