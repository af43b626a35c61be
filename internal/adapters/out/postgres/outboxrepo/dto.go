// Package outboxrepo stores domain events written by the unit of work and
// hands them to the relay.
package outboxrepo

import (
	"time"

	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// OutboxMessageDTO is a row of the transactional outbox. Unpublished rows have
// a NULL published_at; the partial index keeps the relay scan cheap.
type OutboxMessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AggregateID uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventType   string     `gorm:"type:varchar(64);not null"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time  `gorm:"not null"`
	PublishedAt *time.Time `gorm:"index:idx_outbox_unpublished,where:published_at IS NULL"`
}

func (OutboxMessageDTO) TableName() string {
	return "outbox_messages"
}

func FromMessage(m ports.OutboxMessage) OutboxMessageDTO {
	return OutboxMessageDTO{
		ID:          m.ID,
		AggregateID: m.AggregateID,
		EventType:   m.EventType,
		Payload:     m.Payload,
		OccurredAt:  m.OccurredAt,
	}
}

func toMessage(dto OutboxMessageDTO) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:          dto.ID,
		AggregateID: dto.AggregateID,
		EventType:   dto.EventType,
		Payload:     dto.Payload,
		OccurredAt:  dto.OccurredAt,
	}
}
