// Package broker publishes outbox messages to a message broker. Kafka and
// RabbitMQ carry the same JSON envelope keyed by the order id.
package broker

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/ports"
)

// Envelope is the wire format of a published domain event.
type Envelope struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

func NewEnvelope(m ports.OutboxMessage) Envelope {
	payload := json.RawMessage(m.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return Envelope{
		EventID:     m.ID.String(),
		EventType:   m.EventType,
		AggregateID: m.AggregateID.String(),
		OccurredAt:  m.OccurredAt.UTC(),
		Payload:     payload,
	}
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
