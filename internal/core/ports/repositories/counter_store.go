package repositories

import (
	"context"
	"time"
)

// CounterStore is a shared integer store with atomic increments.
// Implementations must be safe for concurrent use by many processes.
type CounterStore interface {
	// IncrementWithExpiry atomically adds one to key and returns the new value. When the
	// key did not exist it is created with value 1 and the given ttl, in the same atomic step.
	IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Get returns the current value of key, or 0 if it does not exist.
	Get(ctx context.Context, key string) (int64, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
