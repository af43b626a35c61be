package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery looks up the shipments of an order.
type GetShipmentQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetShipmentQuery(orderID kernel.UUID) (GetShipmentQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) OrderID() kernel.UUID {
	return q.orderID
}

type ShipmentView struct {
	ID             kernel.UUID
	WarehouseID    *kernel.UUID
	Status         string
	TrackingNumber string
	IsReturn       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShipmentTransition is one recorded status change of a shipment.
type ShipmentTransition struct {
	ShipmentID string
	From       string
	To         string
	OccurredAt time.Time
}

// GetShipmentQueryResponse carries the current shipment (the return when one
// exists, otherwise the forward one), all shipments of the order and their
// status history in occurrence order. Current is nil before the order ships.
type GetShipmentQueryResponse struct {
	OrderID   kernel.UUID
	Current   *ShipmentView
	Shipments []ShipmentView
	History   []ShipmentTransition
}
