package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrInitiateReturnCommandIsNotConstructed = errors.New(
	"InitiateReturnCommand must be created via NewInitiateReturnCommand constructor",
)

// InitiateReturnCommand opens the return of a delivered order.
type InitiateReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewInitiateReturnCommand(orderID kernel.UUID, actorID kernel.UUID) (InitiateReturnCommand, error) {
	cmd := InitiateReturnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
	); err != nil {
		return InitiateReturnCommand{}, err
	}

	return cmd, nil
}

func (c InitiateReturnCommand) Validate() error {
	return c.guard.Validate(ErrInitiateReturnCommandIsNotConstructed)
}

func (c InitiateReturnCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c InitiateReturnCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *InitiateReturnCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *InitiateReturnCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}
