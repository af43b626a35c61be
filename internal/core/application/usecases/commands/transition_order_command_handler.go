package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// TransitionOrderCommandHandler applies one forward-flow operation to an
// order in a single transaction and returns the order's new status.
type TransitionOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	engine     *services.LifecycleEngine
}

func NewTransitionOrderCommandHandler(
	uowFactory LifecycleUoWFactory,
	engine *services.LifecycleEngine,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle fails with services.ErrNotAuthorized, services.ErrTransitionRejected,
// errs.ErrObjectNotFound or errs.ErrVersionIsInvalid. Nothing is persisted on
// failure.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.ActorRepository().Get(ctx, cmd.ActorID())
	if err != nil {
		return order.Unknown, err
	}

	req := services.TransitionRequest{
		Operation:   cmd.Operation(),
		WarehouseID: cmd.WarehouseID(),
	}
	if cmd.DeliveryAgentID() != nil {
		req.DeliveryAgent, err = uow.ActorRepository().Get(ctx, *cmd.DeliveryAgentID())
		if err != nil {
			return order.Unknown, err
		}
	}
	if cmd.WarehouseID() != nil {
		if _, err = uow.WarehouseRepository().Get(ctx, *cmd.WarehouseID()); err != nil {
			return order.Unknown, err
		}
	}

	f, err := loadFulfillment(ctx, uow, cmd.OrderID(), cmd.Operation().TouchesStock())
	if err != nil {
		return order.Unknown, err
	}

	if err = h.engine.Apply(a, f.Fulfillment, req); err != nil {
		return order.Unknown, err
	}

	if err = f.save(ctx, uow); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	return f.Order.Status(), nil
}
