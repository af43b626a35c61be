package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
)

// AdvanceReturnCommandHandler moves a return shipment one step along
// Return Initiated → Returning → Returned to Vendor. The last step completes
// the order's return and puts its items back in stock.
type AdvanceReturnCommandHandler struct {
	uowFactory LifecycleUoWFactory
	engine     *services.LifecycleEngine
}

func NewAdvanceReturnCommandHandler(
	uowFactory LifecycleUoWFactory,
	engine *services.LifecycleEngine,
) AdvanceReturnCommandHandler {
	return AdvanceReturnCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle returns the shipment's new status.
func (h AdvanceReturnCommandHandler) Handle(ctx context.Context, cmd AdvanceReturnCommand) (shipment.Status, error) {
	if err := cmd.Validate(); err != nil {
		return shipment.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return shipment.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.ActorRepository().Get(ctx, cmd.ActorID())
	if err != nil {
		return shipment.Unknown, err
	}

	// Unlocked read to find the order; the locks are then taken order first.
	addressed, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return shipment.Unknown, err
	}

	f, err := loadFulfillment(ctx, uow, addressed.OrderID(), true)
	if err != nil {
		return shipment.Unknown, err
	}

	shipmentID := cmd.ShipmentID()
	if err = h.engine.Apply(a, f.Fulfillment, services.TransitionRequest{
		Operation:  services.OperationAdvanceReturn,
		ShipmentID: &shipmentID,
	}); err != nil {
		return shipment.Unknown, err
	}

	if err = f.save(ctx, uow); err != nil {
		return shipment.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return shipment.Unknown, err
	}

	return f.Return.Status(), nil
}
