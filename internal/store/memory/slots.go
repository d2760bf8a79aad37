// Package memory is the in-process slot store used when Redis is not
// configured. Values are lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

type Store struct {
	mu    sync.RWMutex
	slots map[store.Slot]string
}

var _ store.Slots = (*Store)(nil)

func NewStore() *Store {
	return &Store{slots: make(map[store.Slot]string)}
}

func (s *Store) Get(_ context.Context, slot store.Slot) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[slot]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, slot store.Slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot] = value
	return nil
}

func (s *Store) Delete(_ context.Context, slot store.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
