package domain

import "time"

const (
	// DefaultCounterKey is the key under which the running total is stored.
	DefaultCounterKey = "counter:total"

	// DefaultCompletedState is the order state that makes an order countable.
	DefaultCompletedState = "COMPLETED"

	// EventTypePaymentCreated is the only webhook event type that can move the counter.
	EventTypePaymentCreated = "payment.created"

	// DefaultFetchTimeout bounds a single call to the order API.
	DefaultFetchTimeout = 10 * time.Second

	// MaxWebhookBodyBytes caps the size of an inbound webhook payload.
	MaxWebhookBodyBytes = 1 << 20

	// SearchPageLimit is the page size requested from the order search API.
	SearchPageLimit = 500
)

// Sources recorded on counter change events.
const (
	SourceWebhook = "webhook"
	SourceAdmin   = "admin"
)
