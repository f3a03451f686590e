package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/entity"
	"github.com/ruudy-sib/cupcount/internal/domain/valueobject"
)

func TestReportService_ItemsSold(t *testing.T) {
	tracked := valueobject.NewTrackedItemSet([]string{"Latte", "Mocha"})

	t.Run("tallies completed orders at the configured location", func(t *testing.T) {
		var gotLocations []string
		fetcher := &mockFetcher{
			searchFunc: func(_ context.Context, locationIDs []string) ([]entity.Order, error) {
				gotLocations = locationIDs
				return []entity.Order{*testOrder("o1"), *testOrder("o2")}, nil
			},
		}
		svc := NewReportService(fetcher, tracked, defaultRules(), zap.NewNop())

		got, err := svc.ItemsSold(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(gotLocations) != 1 || gotLocations[0] != "loc-1" {
			t.Fatalf("expected search at [loc-1], got %v", gotLocations)
		}
		if got["Latte"] != 6 || got["Mocha"] != 2 {
			t.Fatalf("unexpected tally: %v", got)
		}
		if _, ok := got["Croissant"]; ok {
			t.Fatalf("untracked item leaked into tally: %v", got)
		}
	})

	t.Run("requires a location", func(t *testing.T) {
		svc := NewReportService(&mockFetcher{}, tracked, WebhookRules{}, zap.NewNop())
		if _, err := svc.ItemsSold(context.Background()); !errors.Is(err, domain.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
	})

	t.Run("search failure is returned", func(t *testing.T) {
		fetcher := &mockFetcher{
			searchFunc: func(_ context.Context, _ []string) ([]entity.Order, error) {
				return nil, domain.ErrFetchFailed
			},
		}
		svc := NewReportService(fetcher, tracked, defaultRules(), zap.NewNop())
		if _, err := svc.ItemsSold(context.Background()); !errors.Is(err, domain.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
	})
}
