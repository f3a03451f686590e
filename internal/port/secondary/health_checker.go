package secondary

import "context"

// HealthChecker checks one backing store for the /health endpoint.
type HealthChecker interface {
	// Name labels the check in the health response, e.g. "redis".
	Name() string

	// Check returns nil when the store answers within ctx.
	Check(ctx context.Context) error
}
