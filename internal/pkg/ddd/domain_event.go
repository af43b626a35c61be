// Package ddd holds the building blocks aggregates use to record domain
// events. Recorded events are drained by the unit of work into the outbox.
package ddd

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact an aggregate recorded during a business operation.
// Implementations embed BaseEvent and add exported payload fields.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent carries the envelope attributes of an event. Its fields are
// unexported so JSON encoding of an event yields only the payload.
type BaseEvent struct {
	id          uuid.UUID
	eventType   string
	aggregateID uuid.UUID
	occurredAt  time.Time
}

func NewBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		id:          uuid.New(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

func (e BaseEvent) EventType() string {
	return e.eventType
}

func (e BaseEvent) AggregateID() uuid.UUID {
	return e.aggregateID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateRoot is implemented by aggregates that record domain events.
type AggregateRoot interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// EventRecorder keeps the events recorded since the aggregate was loaded.
// The zero value is ready to use.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// DomainEvents returns a copy of the recorded events in recording order.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
