package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/cataloguerepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"

	"gorm.io/gorm"
)

// Models lists every table of the fulfillment store in dependency order.
func Models() []any {
	return []any{
		&cataloguerepo.ActorDTO{},
		&cataloguerepo.WarehouseDTO{},
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&shipmentrepo.ShipmentDTO{},
		&outboxrepo.OutboxMessageDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}
