package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrListWarehousesQueryIsNotConstructed = errors.New(
	"ListWarehousesQuery must be created via NewListWarehousesQuery constructor",
)

// ListWarehousesQuery returns the hubs the logistics team may route through.
type ListWarehousesQuery struct {
	guard guard.ConstructorGuard
}

func NewListWarehousesQuery() ListWarehousesQuery {
	return ListWarehousesQuery{guard: guard.NewConstructorGuard()}
}

func (q ListWarehousesQuery) Validate() error {
	return q.guard.Validate(ErrListWarehousesQueryIsNotConstructed)
}

type WarehouseView struct {
	ID       kernel.UUID
	Name     string
	Location string
	Capacity int
}
