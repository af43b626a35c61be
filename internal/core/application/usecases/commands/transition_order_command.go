package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand moves an order along the forward flow, cancels it or
// routes it through a warehouse. Returns have their own commands.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actorID         kernel.UUID
	operation       services.Operation
	deliveryAgentID *kernel.UUID
	warehouseID     *kernel.UUID

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	operation services.Operation,
	deliveryAgentID *kernel.UUID,
	warehouseID *kernel.UUID,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setOperation(operation),
		cmd.setDeliveryAgentID(deliveryAgentID),
		cmd.setWarehouseID(warehouseID),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c TransitionOrderCommand) Operation() services.Operation {
	return c.operation
}

func (c TransitionOrderCommand) DeliveryAgentID() *kernel.UUID {
	return c.deliveryAgentID
}

func (c TransitionOrderCommand) WarehouseID() *kernel.UUID {
	return c.warehouseID
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}

func (c *TransitionOrderCommand) setOperation(operation services.Operation) error {
	if err := operation.Validate(); err != nil {
		return err
	}
	switch operation {
	case services.OperationPlaceOrder, services.OperationInitiateReturn, services.OperationAdvanceReturn:
		return errs.NewValueIsInvalidErrorWithCause(
			"operation is invalid", fmt.Errorf("%s is not an order transition", operation))
	default:
		c.operation = operation
		return nil
	}
}

func (c *TransitionOrderCommand) setDeliveryAgentID(deliveryAgentID *kernel.UUID) error {
	if deliveryAgentID == nil {
		return nil
	}
	if err := deliveryAgentID.Validate(); err != nil {
		return err
	}
	c.deliveryAgentID = deliveryAgentID
	return nil
}

func (c *TransitionOrderCommand) setWarehouseID(warehouseID *kernel.UUID) error {
	if warehouseID == nil {
		return nil
	}
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	c.warehouseID = warehouseID
	return nil
}
