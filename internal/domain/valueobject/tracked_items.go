package valueobject

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/entity"
)

// TrackedItemSet is the fixed allow-list of product names whose quantities
// count toward the total. It is immutable after construction.
type TrackedItemSet struct {
	names map[string]struct{}
}

// NewTrackedItemSet builds a set from product names. Blank names are dropped
// and duplicates collapse.
func NewTrackedItemSet(names []string) TrackedItemSet {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := normalizeName(n)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return TrackedItemSet{names: set}
}

// Contains reports whether name is tracked.
func (s TrackedItemSet) Contains(name string) bool {
	_, ok := s.names[normalizeName(name)]
	return ok
}

// Len returns the number of tracked names.
func (s TrackedItemSet) Len() int {
	return len(s.names)
}

// Names returns the tracked names in sorted order.
func (s TrackedItemSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// MatchedTotal sums the quantities of tracked line items. Untracked items
// contribute nothing and their quantities are not inspected.
func (s TrackedItemSet) MatchedTotal(items []entity.LineItem) (int64, error) {
	var total int64
	for i, item := range items {
		if !s.Contains(item.Name) {
			continue
		}
		qty, err := ParseQuantity(item.Quantity)
		if err != nil {
			return 0, fmt.Errorf("line item %d (%s): %w", i, item.Name, err)
		}
		if total > math.MaxInt64-qty {
			return 0, fmt.Errorf("line item %d (%s): %w: order total overflows", i, item.Name, domain.ErrInvalidQuantity)
		}
		total += qty
	}
	return total, nil
}

// Tally returns per-name totals across all given orders. Every tracked name
// is present in the result, including those with no sales.
func (s TrackedItemSet) Tally(orders []entity.Order) (map[string]int64, error) {
	counts := make(map[string]int64, len(s.names))
	for n := range s.names {
		counts[n] = 0
	}
	for _, o := range orders {
		for _, item := range o.LineItems {
			key := normalizeName(item.Name)
			if _, ok := s.names[key]; !ok {
				continue
			}
			qty, err := ParseQuantity(item.Quantity)
			if err != nil {
				return nil, fmt.Errorf("order %s: %w", o.ID, err)
			}
			if counts[key] > math.MaxInt64-qty {
				return nil, fmt.Errorf("order %s: %w: total for %s overflows", o.ID, domain.ErrInvalidQuantity, key)
			}
			counts[key] += qty
		}
	}
	return counts, nil
}

// normalizeName folds composed and decomposed forms (e.g. "Café") to NFC so
// names typed in different tools compare equal.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
