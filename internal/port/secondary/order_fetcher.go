package secondary

import (
	"context"

	"github.com/ruudy-sib/cupcount/internal/domain/entity"
)

// OrderFetcher defines the secondary port for reading orders from the
// point-of-sale platform.
type OrderFetcher interface {
	// FetchOrder retrieves a single order. Failures wrap domain.ErrFetchFailed.
	FetchOrder(ctx context.Context, orderID string) (*entity.Order, error)

	// SearchCompletedOrders returns every completed order at the given locations.
	SearchCompletedOrders(ctx context.Context, locationIDs []string) ([]entity.Order, error)
}
