package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes; the domain
// events of tracked aggregates are written to the outbox on Commit.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit writes pending domain events to the outbox and commits.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and forgets tracked aggregates.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	ActorRepository() ActorRepository
	ProductRepository() ProductRepository
	OrderRepository() OrderRepository
	ShipmentRepository() ShipmentRepository
	WarehouseRepository() WarehouseRepository
	OutboxRepository() OutboxRepository
}
