// Package ports defines the contracts between the fulfillment core and its
// adapters: repositories, the unit of work, the event publisher and the
// order status cache.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are always loaded together with their items.
type OrderRepository interface {
	// Add persists a new order and its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The write is guarded by
	// the order's version; a concurrent change yields errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction
	// ends. Concurrent transitions on the same order serialize here.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
