package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/valueobject"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// ReportService builds sales summaries straight from the platform's order history.
type ReportService struct {
	fetcher  secondary.OrderFetcher
	tracked  valueobject.TrackedItemSet
	location string
	logger   *zap.Logger
}

// NewReportService creates a ReportService. rules.AllowedLocation scopes the search.
func NewReportService(
	fetcher secondary.OrderFetcher,
	tracked valueobject.TrackedItemSet,
	rules WebhookRules,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		fetcher:  fetcher,
		tracked:  tracked,
		location: rules.AllowedLocation,
		logger:   logger.Named("report-service"),
	}
}

// ItemsSold tallies tracked items across every completed order at the configured location.
func (s *ReportService) ItemsSold(ctx context.Context) (map[string]int64, error) {
	if s.location == "" {
		return nil, fmt.Errorf("%w: no location configured for order search", domain.ErrFetchFailed)
	}

	orders, err := s.fetcher.SearchCompletedOrders(ctx, []string{s.location})
	if err != nil {
		return nil, fmt.Errorf("searching completed orders: %w", err)
	}

	counts, err := s.tracked.Tally(orders)
	if err != nil {
		return nil, fmt.Errorf("tallying orders: %w", err)
	}

	s.logger.Info("items sold report built",
		zap.Int("orders", len(orders)),
		zap.Int("tracked_items", s.tracked.Len()),
	)

	return counts, nil
}
