package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/warehouse"
)

// ActorRepository stores the identities and roles of acting users.
type ActorRepository interface {
	Add(ctx context.Context, a *actor.Actor) error
	Get(ctx context.Context, id kernel.UUID) (*actor.Actor, error)
}

type WarehouseRepository interface {
	Add(ctx context.Context, w *warehouse.Warehouse) error
	Get(ctx context.Context, id kernel.UUID) (*warehouse.Warehouse, error)
}
