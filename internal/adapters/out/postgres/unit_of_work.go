// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern and the schema of the fulfillment store.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// run inside that transaction and report the aggregates they write; on Commit
// the domain events those aggregates recorded are appended to the outbox in
// the same transaction, so state changes and their events are stored
// atomically.
//
// Usage:
//
//	uow := NewGormUnitOfWorkFactory(db).Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	// ... mutate and Update
//
//	return uow.Commit(ctx)
//
// Each unit of work instance must be used by a single goroutine.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/cataloguerepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/ddd"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the outbox writes
// of the aggregates changed in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit appends the pending domain events of every tracked aggregate to the
// outbox and commits. The events are cleared from the aggregates only after
// the commit succeeds.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	roots, messages, err := uow.pendingMessages()
	if err != nil {
		return err
	}
	if err = outboxrepo.NewGormOutboxRepository(uow.tx).Append(ctx, messages); err != nil {
		return err
	}

	err = uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	for _, root := range roots {
		root.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active, which is
// the case after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) ActorRepository() ports.ActorRepository {
	return cataloguerepo.NewGormActorRepository(uow.conn())
}

func (uow *GormUnitOfWork) WarehouseRepository() ports.WarehouseRepository {
	return cataloguerepo.NewGormWarehouseRepository(uow.conn())
}

func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return productrepo.NewGormProductRepository(uow.conn())
}

// OrderRepository returns an order repository whose writes are tracked for
// the outbox.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// ShipmentRepository returns a shipment repository whose writes are tracked
// for the outbox.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// pendingMessages turns the recorded events of the tracked aggregates into
// outbox messages, in tracking then recording order. An aggregate written
// twice contributes its events once.
func (uow *GormUnitOfWork) pendingMessages() ([]ddd.AggregateRoot, []ports.OutboxMessage, error) {
	seen := make(map[any]struct{}, len(uow.trackedAggregates))
	roots := make([]ddd.AggregateRoot, 0, len(uow.trackedAggregates))
	messages := make([]ports.OutboxMessage, 0)

	for _, tracked := range uow.trackedAggregates {
		if _, ok := seen[tracked.Aggregate]; ok {
			continue
		}
		seen[tracked.Aggregate] = struct{}{}

		root, ok := tracked.Aggregate.(ddd.AggregateRoot)
		if !ok {
			continue
		}
		roots = append(roots, root)

		for _, event := range root.DomainEvents() {
			payload, err := json.Marshal(event)
			if err != nil {
				return nil, nil, fmt.Errorf("encode %s of %s: %w", event.EventType(), tracked.ID, err)
			}
			messages = append(messages, ports.OutboxMessage{
				ID:          event.EventID(),
				AggregateID: event.AggregateID(),
				EventType:   event.EventType(),
				Payload:     payload,
				OccurredAt:  event.OccurredAt(),
			})
		}
	}

	return roots, messages, nil
}
