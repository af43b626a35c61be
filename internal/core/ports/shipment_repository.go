package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
)

type ShipmentRepository interface {
	// Add persists a new shipment. A duplicate tracking number yields
	// errs.ErrValueIsInvalid.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update writes status, warehouse and tracking number, guarded by version.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByOrderForUpdate locks and returns every shipment of an order,
	// oldest first.
	GetByOrderForUpdate(ctx context.Context, orderID kernel.UUID) ([]*shipment.Shipment, error)
}
