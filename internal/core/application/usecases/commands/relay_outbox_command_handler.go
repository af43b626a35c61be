package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// RelayOutboxCommandHandler drains the transactional outbox to the message
// broker. Messages are published oldest first and marked published in the
// same transaction that locked them, so delivery is at-least-once: a crash
// between publish and commit republishes the batch.
//
// Every event is keyed by its order id; after the batch commits the cached
// status of each affected order is evicted.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	cache      ports.OrderStatusCache
	now        func() time.Time
}

// NewRelayOutboxCommandHandler creates the handler. cache may be nil when
// status caching is disabled.
func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	cache ports.OrderStatusCache,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		cache:      cache,
		now:        time.Now,
	}
}

// Handle returns how many messages were published. When the broker fails
// midway, the messages published before the failure are still marked and
// committed, and the broker error is returned alongside their count.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	messages, err := outbox.GetUnpublishedForUpdate(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	published := make([]uuid.UUID, 0, len(messages))
	affected := make(map[uuid.UUID]struct{}, len(messages))
	var publishErr error
	for _, m := range messages {
		if publishErr = h.publisher.Publish(ctx, m); publishErr != nil {
			break
		}
		published = append(published, m.ID)
		affected[m.AggregateID] = struct{}{}
	}

	if len(published) == 0 {
		return 0, publishErr
	}

	if err = outbox.MarkPublished(ctx, published, h.now().UTC()); err != nil {
		return 0, errors.Join(publishErr, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, errors.Join(publishErr, err)
	}

	return len(published), errors.Join(publishErr, h.evict(ctx, affected))
}

func (h RelayOutboxCommandHandler) evict(ctx context.Context, orderIDs map[uuid.UUID]struct{}) error {
	if h.cache == nil {
		return nil
	}

	var err error
	for id := range orderIDs {
		orderID, convErr := kernel.UUIDFromGoogle(id)
		if convErr != nil {
			err = errors.Join(err, convErr)
			continue
		}
		err = errors.Join(err, h.cache.Delete(ctx, orderID))
	}
	return err
}
