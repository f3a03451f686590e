package entity

import "time"

// WebhookEvent is the parsed form of an inbound platform notification.
type WebhookEvent struct {
	ID         string
	Type       string
	MerchantID string
	OrderID    string
	LocationID string
}

// Outcome describes how a webhook delivery was resolved.
type Outcome string

const (
	OutcomeCounted  Outcome = "counted"
	OutcomeNoMatch  Outcome = "no_match"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeRejected Outcome = "rejected"
)

// WebhookResult is returned for every acknowledged delivery.
type WebhookResult struct {
	Outcome Outcome
	Reason  string
	OrderID string
	Delta   int64
	Value   int64
}

// CounterChange records one mutation of the counter.
type CounterChange struct {
	ID         string
	Source     string
	OrderID    string
	Delta      int64
	Value      int64
	OccurredAt time.Time
}
