package secondary

import "time"

// Metrics defines the secondary port for recording service measurements.
type Metrics interface {
	WebhookOutcome(outcome string)
	CounterValue(value int64)
	OrderFetch(duration time.Duration, err error)
}
