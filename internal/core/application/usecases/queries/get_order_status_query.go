package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery reads the status of one order through the status cache.
type GetOrderStatusQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderStatusQuery(orderID kernel.UUID) (GetOrderStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

type GetOrderStatusQueryResponse struct {
	OrderID    kernel.UUID
	Status     string
	IsReturned bool
	UpdatedAt  time.Time
	Cached     bool
}
