package counter

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local CounterStore backed by go-cache.
// It is only correct when a single process serves all traffic.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a MemoryStore that sweeps expired counters every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

// IncrementWithExpiry adds one to key, creating it with ttl when absent or expired.
func (s *MemoryStore) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if n, err := s.cache.IncrementInt64(key, 1); err == nil {
			return n, nil
		}
		// Add fails if another goroutine created the key first; loop back to increment it.
		if err := s.cache.Add(key, int64(1), ttl); err == nil {
			return 1, nil
		}
	}
}

// Get returns the value of key, or 0 when absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v, found := s.cache.Get(key)
	if !found {
		return 0, nil
	}
	n, _ := v.(int64)
	return n, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
