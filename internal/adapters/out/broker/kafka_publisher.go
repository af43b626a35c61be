package broker

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

const DefaultKafkaTopic = "fulfillment.order.events"

// KafkaWriter is the part of *kafka.Writer the publisher uses.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a synchronous writer that waits for all in-sync
// replicas. Messages are hashed by key so one order keeps its ordering.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

type KafkaPublisher struct {
	writer KafkaWriter
	logger *slog.Logger
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(writer KafkaWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger.With("component", "KafkaPublisher"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, m ports.OutboxMessage) error {
	body, err := NewEnvelope(m).Marshal()
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", m.ID, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(m.AggregateID.String()),
		Value: body,
		Time:  m.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(m.EventType)},
			{Key: "event_id", Value: []byte(m.ID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("write event %s to kafka: %w", m.ID, err)
	}

	p.logger.DebugContext(ctx, "event published", "event_id", m.ID, "event_type", m.EventType)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
