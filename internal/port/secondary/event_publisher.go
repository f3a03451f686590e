package secondary

import (
	"context"

	"github.com/ruudy-sib/cupcount/internal/domain/entity"
)

// EventPublisher defines the secondary port for announcing counter changes
// to downstream consumers (e.g., a Kafka topic).
type EventPublisher interface {
	// PublishCounterChange emits one change event.
	PublishCounterChange(ctx context.Context, change entity.CounterChange) error

	// Close releases any resources held by the publisher.
	Close() error
}
