package primary

import "context"

// ReportService defines the primary port for sales reporting.
type ReportService interface {
	// ItemsSold tallies tracked items across all completed orders.
	ItemsSold(ctx context.Context) (map[string]int64, error)
}
