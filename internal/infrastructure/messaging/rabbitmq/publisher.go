package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/companydev/user-identity-service/internal/api/metrics"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// Publisher sends domain events to a durable RabbitMQ queue as persistent
// JSON messages. It implements ports.EventPublisher.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   zerolog.Logger
}

// NewPublisher dials the broker and declares the durable queue.
func NewPublisher(url, queue string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, queue: queue, log: log}, nil
}

// Publish sends one event to the queue and returns the generated message id.
func (p *Publisher) Publish(ctx context.Context, eventName string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal event %s: %w", eventName, err)
	}

	messageID := uuid.NewString()
	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Type:         eventName,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventName, "error").Inc()
		return "", fmt.Errorf("publish %s: %w", eventName, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(eventName, "ok").Inc()
	p.log.Debug().
		Str("event", eventName).
		Str("message_id", messageID).
		Str("queue", p.queue).
		Msg("event published")

	return messageID, nil
}

// Ping verifies the connection is still open. Used by the readiness probe.
func (p *Publisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

var _ ports.EventPublisher = (*Publisher)(nil)
