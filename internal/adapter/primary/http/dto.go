package http

import "github.com/ruudy-sib/cupcount/internal/domain/entity"

// webhookEnvelope matches the Square event notification body.
type webhookEnvelope struct {
	MerchantID string      `json:"merchant_id"`
	Type       string      `json:"type"`
	EventID    string      `json:"event_id"`
	CreatedAt  string      `json:"created_at"`
	Data       webhookData `json:"data"`
}

type webhookData struct {
	Type   string        `json:"type"`
	ID     string        `json:"id"`
	Object webhookObject `json:"object"`
}

type webhookObject struct {
	Payment *paymentDTO `json:"payment"`
}

type paymentDTO struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	LocationID string `json:"location_id"`
	Status     string `json:"status"`
}

// toEntity converts the envelope to a domain event.
func (e *webhookEnvelope) toEntity() *entity.WebhookEvent {
	event := &entity.WebhookEvent{
		ID:         e.EventID,
		Type:       e.Type,
		MerchantID: e.MerchantID,
	}
	if p := e.Data.Object.Payment; p != nil {
		event.OrderID = p.OrderID
		event.LocationID = p.LocationID
	}
	return event
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	OrderID string `json:"order_id,omitempty"`
	Delta   int64  `json:"delta"`
	Value   int64  `json:"value,omitempty"`
}

func newWebhookResponse(r *entity.WebhookResult) WebhookResponse {
	return WebhookResponse{
		Outcome: string(r.Outcome),
		Reason:  r.Reason,
		OrderID: r.OrderID,
		Delta:   r.Delta,
		Value:   r.Value,
	}
}

// CounterResponse carries the counter value.
type CounterResponse struct {
	Value   int64  `json:"value"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
