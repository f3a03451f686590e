package valueobject

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruudy-sib/cupcount/internal/domain"
)

// ParseQuantity reads a line item quantity. An empty quantity counts as zero.
// Anything that is not a base-10 non-negative integer is rejected.
func ParseQuantity(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %q is negative", domain.ErrInvalidQuantity, raw)
	}
	return n, nil
}
