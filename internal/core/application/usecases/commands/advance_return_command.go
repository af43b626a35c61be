package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceReturnCommandIsNotConstructed = errors.New(
	"AdvanceReturnCommand must be created via NewAdvanceReturnCommand constructor",
)

// AdvanceReturnCommand moves a return shipment one step towards the vendor.
type AdvanceReturnCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewAdvanceReturnCommand(shipmentID kernel.UUID, actorID kernel.UUID) (AdvanceReturnCommand, error) {
	cmd := AdvanceReturnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setActorID(actorID),
	); err != nil {
		return AdvanceReturnCommand{}, err
	}

	return cmd, nil
}

func (c AdvanceReturnCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceReturnCommandIsNotConstructed)
}

func (c AdvanceReturnCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c AdvanceReturnCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *AdvanceReturnCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}
	c.shipmentID = shipmentID
	return nil
}

func (c *AdvanceReturnCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}
