package squareapi

import "github.com/ruudy-sib/cupcount/internal/domain/entity"

type orderDTO struct {
	ID         string        `json:"id"`
	LocationID string        `json:"location_id"`
	State      string        `json:"state"`
	LineItems  []lineItemDTO `json:"line_items"`
}

type lineItemDTO struct {
	UID      string `json:"uid,omitempty"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type retrieveOrderResponse struct {
	Order *orderDTO `json:"order"`
}

type searchOrdersRequest struct {
	LocationIDs []string    `json:"location_ids"`
	Cursor      string      `json:"cursor,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Query       searchQuery `json:"query"`
}

type searchQuery struct {
	Filter searchFilter `json:"filter"`
}

type searchFilter struct {
	StateFilter stateFilter `json:"state_filter"`
}

type stateFilter struct {
	States []string `json:"states"`
}

type searchOrdersResponse struct {
	Orders []orderDTO `json:"orders"`
	Cursor string     `json:"cursor"`
}

func (o *orderDTO) toEntity() *entity.Order {
	items := make([]entity.LineItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, entity.LineItem{
			Name:     li.Name,
			Quantity: li.Quantity,
		})
	}
	return &entity.Order{
		ID:         o.ID,
		LocationID: o.LocationID,
		State:      o.State,
		LineItems:  items,
	}
}
