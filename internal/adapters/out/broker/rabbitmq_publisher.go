package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchangeName = "fulfillment"
	ExchangeType        = "topic"
	RoutingKeyPrefix    = "order."
)

var ErrPublishNotConfirmed = errors.New("broker did not confirm the message")

// AMQPChannel is the part of *amqp.Channel the publisher uses.
type AMQPChannel interface {
	PublishWithDeferredConfirmWithContext(
		ctx context.Context,
		exchange string,
		key string,
		mandatory bool,
		immediate bool,
		msg amqp.Publishing,
	) (*amqp.DeferredConfirmation, error)
	Close() error
}

// DialRabbitMQ connects, retrying while the broker starts up, then opens a
// channel in confirm mode and declares the durable topic exchange.
func DialRabbitMQ(url string, exchange string, logger *slog.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("rabbitmq connection failed", "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("could not open channel: %w", err), conn.Close())
	}

	if err = ch.Confirm(false); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("could not enable confirms: %w", err), conn.Close())
	}

	err = ch.ExchangeDeclare(
		exchange,
		ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("could not declare exchange: %w", err), conn.Close())
	}

	return conn, ch, nil
}

type RabbitMQPublisher struct {
	ch       AMQPChannel
	exchange string
	logger   *slog.Logger
}

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)

func NewRabbitMQPublisher(ch AMQPChannel, exchange string, logger *slog.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("component", "RabbitMQPublisher"),
	}
}

// Publish sends the envelope with routing key order.<event_type> and waits
// for the broker confirm when the channel is in confirm mode.
func (p *RabbitMQPublisher) Publish(ctx context.Context, m ports.OutboxMessage) error {
	body, err := NewEnvelope(m).Marshal()
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", m.ID, err)
	}

	confirmation, err := p.ch.PublishWithDeferredConfirmWithContext(ctx,
		p.exchange,
		RoutingKey(m.EventType),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     m.ID.String(),
			CorrelationId: m.AggregateID.String(),
			Type:          m.EventType,
			Timestamp:     m.OccurredAt,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event %s to rabbitmq: %w", m.ID, err)
	}

	if confirmation != nil {
		acked, waitErr := confirmation.WaitContext(ctx)
		if waitErr != nil {
			return fmt.Errorf("wait for confirm of event %s: %w", m.ID, waitErr)
		}
		if !acked {
			return fmt.Errorf("event %s: %w", m.ID, ErrPublishNotConfirmed)
		}
	}

	p.logger.DebugContext(ctx, "event published", "event_id", m.ID, "event_type", m.EventType)
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	return p.ch.Close()
}

// RoutingKey maps an event type to its routing key, e.g. order.OrderPlaced.
func RoutingKey(eventType string) string {
	return RoutingKeyPrefix + eventType
}
