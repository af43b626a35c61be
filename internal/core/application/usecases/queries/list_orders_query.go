package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows ListOrders. Nil fields do not filter; a zero Limit
// means DefaultListLimit.
type OrderFilter struct {
	CustomerID      *kernel.UUID
	VendorID        *kernel.UUID
	LogisticsTeamID *kernel.UUID
	DeliveryAgentID *kernel.UUID
	Status          *order.Status
	Limit           int
	Offset          int
}

// ListOrdersQuery pages through orders, newest first.
type ListOrdersQuery struct {
	filter OrderFilter
	guard  guard.ConstructorGuard
}

func NewListOrdersQuery(filter OrderFilter) (ListOrdersQuery, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}

	var statusErr error
	if filter.Status != nil {
		statusErr = filter.Status.Validate()
	}

	if err := errors.Join(
		optionalID(filter.CustomerID),
		optionalID(filter.VendorID),
		optionalID(filter.LogisticsTeamID),
		optionalID(filter.DeliveryAgentID),
		statusErr,
		limitErr(filter.Limit),
		offsetErr(filter.Offset),
	); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() OrderFilter {
	return q.filter
}

// OrderSummary is one row of ListOrders.
type OrderSummary struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	VendorID   kernel.UUID
	Status     string
	IsReturned bool
	TotalPrice string
	PlacedAt   time.Time
}

func optionalID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	return id.Validate()
}

func limitErr(limit int) error {
	if limit < 1 || limit > MaxListLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	return nil
}

func offsetErr(offset int) error {
	if offset < 0 {
		return errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	return nil
}
