package order

import (
	"fulfillment/internal/pkg/ddd"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// PlacedItem is one line of an OrderPlacedEvent.
type PlacedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type PlacedEvent struct {
	ddd.BaseEvent
	OrderID    string       `json:"order_id"`
	CustomerID string       `json:"customer_id"`
	VendorID   string       `json:"vendor_id"`
	Items      []PlacedItem `json:"items"`
	TotalPrice string       `json:"total_price"`
}

type StatusChangedEvent struct {
	ddd.BaseEvent
	OrderID    string `json:"order_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	IsReturned bool   `json:"is_returned"`
}
