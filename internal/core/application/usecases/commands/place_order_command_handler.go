package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
)

// PlaceOrderCommandHandler places an order in one transaction: it locks the
// cart's products, reserves their stock, creates the order and writes the
// OrderPlaced event to the outbox. Any failure rolls everything back, so a
// rejected cart never leaves stock deducted.
type PlaceOrderCommandHandler struct {
	uowFactory PlaceOrderUoWFactory
	engine     *services.LifecycleEngine
}

func NewPlaceOrderCommandHandler(uowFactory PlaceOrderUoWFactory, engine *services.LifecycleEngine) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle returns the id of the new order. It fails with
// product.ErrInsufficientStock, order.ErrEmptyCart, errs.ErrObjectNotFound for
// an unknown customer or product, or services.ErrNotAuthorized.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (kernel.UUID, error) {
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

	customer, err := uow.ActorRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return kernel.UUID{}, err
	}

	productRepo := uow.ProductRepository()
	locked, err := productRepo.GetForUpdate(ctx, services.SortedProductIDs(cmd.Lines()))
	if err != nil {
		return kernel.UUID{}, err
	}
	products := make(map[kernel.UUID]*product.Product, len(locked))
	for _, p := range locked {
		products[p.ID()] = p
	}

	o, err := h.engine.PlaceOrder(customer, products, cmd.Lines())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	for _, p := range locked {
		if err = productRepo.Update(ctx, p); err != nil {
			return kernel.UUID{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
