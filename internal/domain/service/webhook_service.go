package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/entity"
	"github.com/ruudy-sib/cupcount/internal/domain/valueobject"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

const tracerName = "github.com/ruudy-sib/cupcount/internal/domain/service"

// WebhookRules holds the filters applied to every inbound event.
type WebhookRules struct {
	// AllowedLocation restricts counting to one location when non-empty.
	AllowedLocation string
	// CompletedState is the order state required for counting. Empty disables the check.
	CompletedState string
}

// WebhookService turns payment notifications into counter increments.
type WebhookService struct {
	store     secondary.CounterStore
	fetcher   secondary.OrderFetcher
	publisher secondary.EventPublisher
	metrics   secondary.Metrics
	tracked   valueobject.TrackedItemSet
	rules     WebhookRules
	tracer    trace.Tracer
	logger    *zap.Logger
	now       func() time.Time
}

// NewWebhookService creates a WebhookService with its dependencies injected.
func NewWebhookService(
	store secondary.CounterStore,
	fetcher secondary.OrderFetcher,
	publisher secondary.EventPublisher,
	metrics secondary.Metrics,
	tracked valueobject.TrackedItemSet,
	rules WebhookRules,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		store:     store,
		fetcher:   fetcher,
		publisher: publisher,
		metrics:   metrics,
		tracked:   tracked,
		rules:     rules,
		tracer:    otel.Tracer(tracerName),
		logger:    logger.Named("webhook-service"),
		now:       time.Now,
	}
}

// HandleEvent validates the event, fetches the referenced order and adds the
// quantity of tracked items to the counter.
func (s *WebhookService) HandleEvent(ctx context.Context, event *entity.WebhookEvent) (*entity.WebhookResult, error) {
	ctx, span := s.tracer.Start(ctx, "webhook.handle_event", trace.WithAttributes(
		attribute.String("webhook.event_type", event.Type),
		attribute.String("webhook.event_id", event.ID),
	))
	defer span.End()

	logger := s.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
	)

	if event.Type != domain.EventTypePaymentCreated {
		return s.ignore(logger, "", "unhandled event type"), nil
	}

	orderID, err := valueobject.NewOrderID(event.OrderID)
	if err != nil {
		s.metrics.WebhookOutcome("missing_order_id")
		logger.Warn("webhook without order id", zap.Error(err))
		span.SetStatus(codes.Error, "missing order id")
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingOrderID, err)
	}

	logger = logger.With(zap.String("order_id", orderID.String()))
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	if event.LocationID != "" && !s.locationAllowed(event.LocationID) {
		return s.ignore(logger, orderID.String(), "location not tracked: "+event.LocationID), nil
	}

	started := s.now()
	order, err := s.fetcher.FetchOrder(ctx, orderID.String())
	s.metrics.OrderFetch(s.now().Sub(started), err)
	if err != nil {
		s.metrics.WebhookOutcome("fetch_failed")
		logger.Error("failed to fetch order", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "order fetch failed")
		if !errors.Is(err, domain.ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
		return nil, err
	}

	if event.LocationID == "" && !s.locationAllowed(order.LocationID) {
		return s.ignore(logger, orderID.String(), "location not tracked: "+order.LocationID), nil
	}

	if !order.IsInState(s.rules.CompletedState) {
		return s.ignore(logger, orderID.String(), "order state "+order.State), nil
	}

	delta, err := s.tracked.MatchedTotal(order.LineItems)
	if err != nil {
		// Redelivery would hit the same data, so the event is acknowledged.
		s.metrics.WebhookOutcome(string(entity.OutcomeRejected))
		logger.Error("order has unreadable line items", zap.Error(err))
		span.RecordError(err)
		return &entity.WebhookResult{
			Outcome: entity.OutcomeRejected,
			Reason:  err.Error(),
			OrderID: orderID.String(),
		}, nil
	}

	if delta <= 0 {
		s.metrics.WebhookOutcome(string(entity.OutcomeNoMatch))
		logger.Info("order has no tracked items",
			zap.Int("line_items", len(order.LineItems)),
		)
		return &entity.WebhookResult{
			Outcome: entity.OutcomeNoMatch,
			OrderID: orderID.String(),
		}, nil
	}

	value, err := s.store.Increment(ctx, delta)
	if err != nil {
		s.metrics.WebhookOutcome("store_failed")
		logger.Error("failed to increment counter",
			zap.Int64("delta", delta),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "increment failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	s.metrics.WebhookOutcome(string(entity.OutcomeCounted))
	s.metrics.CounterValue(value)
	span.SetAttributes(attribute.Int64("counter.delta", delta), attribute.Int64("counter.value", value))

	logger.Info("order counted",
		zap.Int64("delta", delta),
		zap.Int64("value", value),
	)

	s.publish(ctx, logger, entity.CounterChange{
		ID:         uuid.NewString(),
		Source:     domain.SourceWebhook,
		OrderID:    orderID.String(),
		Delta:      delta,
		Value:      value,
		OccurredAt: s.now().UTC(),
	})

	return &entity.WebhookResult{
		Outcome: entity.OutcomeCounted,
		OrderID: orderID.String(),
		Delta:   delta,
		Value:   value,
	}, nil
}

func (s *WebhookService) locationAllowed(locationID string) bool {
	return s.rules.AllowedLocation == "" || s.rules.AllowedLocation == locationID
}

func (s *WebhookService) ignore(logger *zap.Logger, orderID, reason string) *entity.WebhookResult {
	s.metrics.WebhookOutcome(string(entity.OutcomeIgnored))
	logger.Info("event ignored", zap.String("reason", reason))
	return &entity.WebhookResult{
		Outcome: entity.OutcomeIgnored,
		Reason:  reason,
		OrderID: orderID,
	}
}

func (s *WebhookService) publish(ctx context.Context, logger *zap.Logger, change entity.CounterChange) {
	if err := s.publisher.PublishCounterChange(ctx, change); err != nil {
		// The counter is already updated; the change event is best effort.
		logger.Warn("failed to publish counter change", zap.Error(err))
	}
}
