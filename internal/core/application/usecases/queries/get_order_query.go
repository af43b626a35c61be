// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read the store directly and return read models; they never lock.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its items.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	view, err := NewGetOrderQueryHandler(db).Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemView is one line of an order. Prices are decimal strings with two
// fractional digits.
type OrderItemView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice string
	Subtotal  string
}

// GetOrderQueryResponse is the full read model of an order.
type GetOrderQueryResponse struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	VendorID        kernel.UUID
	LogisticsTeamID *kernel.UUID
	DeliveryAgentID *kernel.UUID
	WarehouseID     *kernel.UUID
	Status          string
	IsReturned      bool
	TotalPrice      string
	PlacedAt        time.Time
	UpdatedAt       time.Time
	Items           []OrderItemView
}
