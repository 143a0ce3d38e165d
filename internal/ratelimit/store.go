package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store keeps per-key attempt timestamps. Implementations must be safe for
// concurrent use.
type Store interface {
	// Reserve drops attempts at or before cutoff and, if fewer than limit
	// remain, records one at the given time. It reports whether the attempt
	// was recorded. The whole step is atomic per key.
	Reserve(ctx context.Context, key string, at, cutoff time.Time, limit int) (bool, error)
	// Get returns the recorded attempts for key, oldest first.
	Get(ctx context.Context, key string) ([]time.Time, error)
	Clear(ctx context.Context, key string) error
}

// MemoryStore is the process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]time.Time)}
}

func (s *MemoryStore) Reserve(_ context.Context, key string, at, cutoff time.Time, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[key][:0]
	for _, t := range s.items[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= limit {
		s.items[key] = kept
		return false, nil
	}
	s.items[key] = append(kept, at)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempts := s.items[key]
	out := make([]time.Time, len(attempts))
	copy(out, attempts)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
