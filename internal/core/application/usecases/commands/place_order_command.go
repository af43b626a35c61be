package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand is a customer's checkout: the cart lines to turn into an
// order. Duplicate lines for one product are merged on construction.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(customerID, []services.Line{
//	    {ProductID: mugID, Quantity: 2},
//	    {ProductID: teaID, Quantity: 1},
//	})
//	if errors.Is(err, order.ErrEmptyCart) {
//	    // nothing to place
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	lines      []services.Line

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(customerID kernel.UUID, lines []services.Line) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Lines returns the merged cart lines.
func (c PlaceOrderCommand) Lines() []services.Line {
	out := make([]services.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []services.Line) error {
	merged, err := services.MergeLines(lines)
	if err != nil {
		return err
	}
	c.lines = merged
	return nil
}
