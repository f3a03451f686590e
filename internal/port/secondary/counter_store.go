package secondary

import "context"

// CounterStore defines the secondary port for the single persisted counter
// (e.g., a Redis key or a SQLite row).
type CounterStore interface {
	// Init creates the counter with value 0 if it does not exist yet.
	Init(ctx context.Context) error

	// Get returns the current value. A missing counter reads as 0.
	Get(ctx context.Context) (int64, error)

	// Set overwrites the value and returns the value it replaced, read in
	// the same atomic step. A missing counter replaces 0.
	Set(ctx context.Context, value int64) (previous int64, err error)

	// Increment atomically adds delta and returns the new value.
	Increment(ctx context.Context, delta int64) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
