package order

import "errors"

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrEmptyCart is returned when an order is placed without any line.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrAlreadyReturned is returned when a return is requested a second time.
	// Only one return is allowed per order.
	ErrAlreadyReturned = errors.New("order has already been returned")

	// ErrNotDeliveredYet is returned when a return is requested before delivery.
	ErrNotDeliveredYet = errors.New("order has not been delivered yet")

	// ErrLogisticsTeamAlreadyAssigned is returned when a second team tries to claim an order.
	ErrLogisticsTeamAlreadyAssigned = errors.New("order is already assigned to another logistics team")
)
