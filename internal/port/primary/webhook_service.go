package primary

import (
	"context"

	"github.com/ruudy-sib/cupcount/internal/domain/entity"
)

// WebhookService defines the primary port for applying inbound platform events.
type WebhookService interface {
	// HandleEvent resolves one delivery. Irrelevant events are reported through
	// the result outcome, not as errors.
	HandleEvent(ctx context.Context, event *entity.WebhookEvent) (*entity.WebhookResult, error)
}
