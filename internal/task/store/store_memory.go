package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"todotrack/internal/todolist"
)

// InMemoryStore keeps snapshots per owner in a map. Suitable for tests and
// for running without Postgres.
type InMemoryStore struct {
	mu    sync.RWMutex
	lists map[uuid.UUID][]todolist.ItemSnapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		lists: make(map[uuid.UUID][]todolist.ItemSnapshot),
	}
}

func (s *InMemoryStore) Load(_ context.Context, ownerID uuid.UUID) ([]todolist.ItemSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshots(s.lists[ownerID]), nil
}

func (s *InMemoryStore) Replace(_ context.Context, ownerID uuid.UUID, snapshots []todolist.ItemSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[ownerID] = cloneSnapshots(snapshots)
	return nil
}

// cloneSnapshots deep-copies so callers cannot alias stored state.
func cloneSnapshots(in []todolist.ItemSnapshot) []todolist.ItemSnapshot {
	if in == nil {
		return nil
	}
	out := make([]todolist.ItemSnapshot, len(in))
	for i, snap := range in {
		copied := snap
		copied.Progressions = make([]todolist.ProgressionSnapshot, len(snap.Progressions))
		copy(copied.Progressions, snap.Progressions)
		out[i] = copied
	}
	return out
}
