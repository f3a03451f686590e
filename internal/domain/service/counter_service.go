package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/entity"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// CounterService serves reads and manual overrides of the counter.
type CounterService struct {
	store     secondary.CounterStore
	publisher secondary.EventPublisher
	metrics   secondary.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewCounterService creates a CounterService with its dependencies injected.
func NewCounterService(
	store secondary.CounterStore,
	publisher secondary.EventPublisher,
	metrics secondary.Metrics,
	logger *zap.Logger,
) *CounterService {
	return &CounterService{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Named("counter-service"),
		now:       time.Now,
	}
}

// Current returns the counter value.
func (s *CounterService) Current(ctx context.Context) (int64, error) {
	value, err := s.store.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}
	return value, nil
}

// Set overwrites the counter with value.
func (s *CounterService) Set(ctx context.Context, value int64) (int64, error) {
	if value < 0 {
		return 0, fmt.Errorf("%w: %d is negative", domain.ErrInvalidValue, value)
	}

	previous, err := s.store.Set(ctx, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	s.metrics.CounterValue(value)
	s.logger.Info("counter overridden",
		zap.Int64("previous", previous),
		zap.Int64("value", value),
	)

	change := entity.CounterChange{
		ID:         uuid.NewString(),
		Source:     domain.SourceAdmin,
		Delta:      value - previous,
		Value:      value,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishCounterChange(ctx, change); err != nil {
		s.logger.Warn("failed to publish counter change", zap.Error(err))
	}

	return value, nil
}
