package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxMessage is a domain event persisted in the same transaction as the
// change that produced it, waiting to be published.
type OutboxMessage struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	EventType   string
	Payload     []byte
	OccurredAt  time.Time
}

type OutboxRepository interface {
	// GetUnpublishedForUpdate returns up to limit unpublished messages, oldest
	// first, skipping rows locked by a concurrent relay.
	GetUnpublishedForUpdate(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished stamps the messages as published at publishedAt.
	MarkPublished(ctx context.Context, ids []uuid.UUID, publishedAt time.Time) error
}

// EventPublisher delivers outbox messages to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, message OutboxMessage) error
}
