package reference

import (
	"context"
	"sync"
)

// MemoryCounterStore is an in-memory CounterStore for tests and for
// running the kiosk without a database.
type MemoryCounterStore struct {
	mu   sync.Mutex
	date string
	seq  int
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{}
}

func (s *MemoryCounterStore) Next(ctx context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.date == date {
		s.seq++
	} else {
		s.date = date
		s.seq = 1
	}
	return s.seq, nil
}
