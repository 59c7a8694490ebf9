package sequence

import (
	"context"
	"sync"
)

// Source hands out monotonically increasing values per named counter.
// Values start at 1 and are never reused; a durable implementation must
// survive restarts without repeating.
type Source interface {
	Next(ctx context.Context, name string) (uint64, error)
}

// MemorySource keeps counters in process memory. Suitable for tests and
// single-node deployments without durability requirements.
type MemorySource struct {
	mu       sync.Mutex
	counters map[string]uint64
}

func NewMemorySource() *MemorySource {
	return &MemorySource{counters: make(map[string]uint64)}
}

func (s *MemorySource) Next(_ context.Context, name string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[name]++
	return s.counters[name], nil
}
