// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler declares only the repositories it uses.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ActorRepoFactory interface {
		ActorRepository() ports.ActorRepository
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	WarehouseRepoFactory interface {
		WarehouseRepository() ports.WarehouseRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// PlaceOrderUoW covers order placement: the customer, the products whose
	// stock is reserved and the new order.
	PlaceOrderUoW interface {
		TxManager
		ActorRepoFactory
		ProductRepoFactory
		OrderRepoFactory
	}

	PlaceOrderUoWFactory interface {
		Create() PlaceOrderUoW
	}

	// LifecycleUoW covers every operation on an existing order: the order,
	// its shipments, the stock released by cancellations and returns, and the
	// actors and warehouses referenced by the request.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   shipments, err := uow.ShipmentRepository().GetByOrderForUpdate(ctx, orderID)
	//   // ... apply the operation and persist
	//
	//   err = uow.Commit(ctx)
	LifecycleUoW interface {
		TxManager
		ActorRepoFactory
		ProductRepoFactory
		OrderRepoFactory
		ShipmentRepoFactory
		WarehouseRepoFactory
	}

	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// CatalogueUoW covers onboarding of actors, products and warehouses.
	CatalogueUoW interface {
		TxManager
		ActorRepoFactory
		ProductRepoFactory
		WarehouseRepoFactory
	}

	CatalogueUoWFactory interface {
		Create() CatalogueUoW
	}

	// OutboxUoW covers the outbox relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
