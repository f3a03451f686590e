package entity

// LineItem is one entry of an order. Quantity is kept as the decimal string
// the point-of-sale platform sends; it is parsed only when the item is tracked.
type LineItem struct {
	Name     string
	Quantity string
}

// Order is the subset of a platform order the counter cares about.
type Order struct {
	ID         string
	LocationID string
	State      string
	LineItems  []LineItem
}

// IsInState reports whether the order is in the given state. An empty state
// matches every order.
func (o *Order) IsInState(state string) bool {
	return state == "" || o.State == state
}
