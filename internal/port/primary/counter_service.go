package primary

import "context"

// CounterService defines the primary port for reading and overwriting the
// running total, used by the query/admin endpoints and the CLI.
type CounterService interface {
	// Current returns the counter value.
	Current(ctx context.Context) (int64, error)

	// Set overwrites the counter. Negative values are rejected with domain.ErrInvalidValue.
	Set(ctx context.Context, value int64) (int64, error)
}
