package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
)

// loadedFulfillment remembers which shipments existed when the working set
// was loaded, so that save knows whether to insert or update them.
type loadedFulfillment struct {
	*services.Fulfillment
	hadForward bool
	hadReturn  bool
}

// loadFulfillment locks the order, then its shipments, then (when withStock)
// its products in ascending id order. Locks are always taken in this order.
func loadFulfillment(
	ctx context.Context,
	uow LifecycleUoW,
	orderID kernel.UUID,
	withStock bool,
) (*loadedFulfillment, error) {
	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	shipments, err := uow.ShipmentRepository().GetByOrderForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	f := &services.Fulfillment{Order: o}
	for _, s := range shipments {
		if s.IsReturn() {
			f.Return = s
		} else {
			f.Forward = s
		}
	}

	if withStock {
		ids := services.SortedProductIDs(services.ItemLines(o.Items()))
		locked, err := uow.ProductRepository().GetForUpdate(ctx, ids)
		if err != nil {
			return nil, err
		}
		f.Products = make(map[kernel.UUID]*product.Product, len(locked))
		for _, p := range locked {
			f.Products[p.ID()] = p
		}
	}

	return &loadedFulfillment{
		Fulfillment: f,
		hadForward:  f.Forward != nil,
		hadReturn:   f.Return != nil,
	}, nil
}

// save persists everything an operation may have changed. Products are
// written in the order they were locked.
func (l *loadedFulfillment) save(ctx context.Context, uow LifecycleUoW) error {
	if err := uow.OrderRepository().Update(ctx, l.Order); err != nil {
		return err
	}

	if err := saveShipment(ctx, uow, l.Forward, l.hadForward); err != nil {
		return err
	}
	if err := saveShipment(ctx, uow, l.Return, l.hadReturn); err != nil {
		return err
	}

	if l.Products == nil {
		return nil
	}
	productRepo := uow.ProductRepository()
	for _, id := range services.SortedProductIDs(services.ItemLines(l.Order.Items())) {
		if p, ok := l.Products[id]; ok {
			if err := productRepo.Update(ctx, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func saveShipment(ctx context.Context, uow LifecycleUoW, s *shipment.Shipment, existed bool) error {
	switch {
	case s == nil:
		return nil
	case existed:
		return uow.ShipmentRepository().Update(ctx, s)
	default:
		return uow.ShipmentRepository().Add(ctx, s)
	}
}
