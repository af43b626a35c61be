package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// CachedOrderStatus is the cached projection of an order's status.
type CachedOrderStatus struct {
	Status     string    `json:"status"`
	IsReturned bool      `json:"is_returned"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OrderStatusCache is a read-through cache in front of the status query.
// Get reports a miss with found == false and a nil error.
type OrderStatusCache interface {
	Get(ctx context.Context, orderID kernel.UUID) (status CachedOrderStatus, found bool, err error)
	Set(ctx context.Context, orderID kernel.UUID, status CachedOrderStatus) error
	Delete(ctx context.Context, orderID kernel.UUID) error
}
