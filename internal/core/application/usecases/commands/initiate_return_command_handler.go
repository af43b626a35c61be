package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

// InitiateReturnCommandHandler flags a delivered order as returned and
// creates its return shipment. A second attempt fails with
// order.ErrAlreadyReturned and creates nothing.
type InitiateReturnCommandHandler struct {
	uowFactory LifecycleUoWFactory
	engine     *services.LifecycleEngine
}

func NewInitiateReturnCommandHandler(
	uowFactory LifecycleUoWFactory,
	engine *services.LifecycleEngine,
) InitiateReturnCommandHandler {
	return InitiateReturnCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle returns the id of the new return shipment.
func (h InitiateReturnCommandHandler) Handle(ctx context.Context, cmd InitiateReturnCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.ActorRepository().Get(ctx, cmd.ActorID())
	if err != nil {
		return kernel.UUID{}, err
	}

	f, err := loadFulfillment(ctx, uow, cmd.OrderID(), false)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.engine.Apply(a, f.Fulfillment, services.TransitionRequest{
		Operation: services.OperationInitiateReturn,
	}); err != nil {
		return kernel.UUID{}, err
	}

	if err = f.save(ctx, uow); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return f.Return.ID(), nil
}
