package challenge

import (
	"context"
	"sync"
)

// CounterStore tracks how many unresolved challenges each player has issued.
// The coordinator consults it before letting a player open another one.
type CounterStore interface {
	Incr(ctx context.Context, playerID string) (int64, error)
	Decr(ctx context.Context, playerID string) error
	Count(ctx context.Context, playerID string) (int64, error)
}

// MemoryStore is the in-process CounterStore used when no Redis is
// configured, and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int64)}
}

func (s *MemoryStore) Incr(_ context.Context, playerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[playerID]++
	return s.counts[playerID], nil
}

func (s *MemoryStore) Decr(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[playerID] <= 1 {
		delete(s.counts, playerID)
		return nil
	}
	s.counts[playerID]--
	return nil
}

func (s *MemoryStore) Count(_ context.Context, playerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[playerID], nil
}
