package valueobject

import (
	"fmt"
	"strings"
)

// OrderID is an immutable value object for a platform order identifier.
type OrderID struct {
	value string
}

// NewOrderID creates a validated OrderID from a string.
func NewOrderID(value string) (OrderID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return OrderID{}, fmt.Errorf("order ID must not be empty")
	}
	if strings.ContainsAny(trimmed, "/?#") {
		return OrderID{}, fmt.Errorf("order ID %q contains reserved characters", trimmed)
	}
	return OrderID{value: trimmed}, nil
}

// String returns the string representation of the OrderID.
func (o OrderID) String() string {
	return o.value
}

// Equals checks equality with another OrderID.
func (o OrderID) Equals(other OrderID) bool {
	return o.value == other.value
}
