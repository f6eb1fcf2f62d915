package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

const consumerTag = "user-identity-service"

// passwordChangedMessage is the wire form of the PasswordChanged payload.
type passwordChangedMessage struct {
	EventID     string `json:"eventId"`
	EventName   string `json:"eventName"`
	AggregateID string `json:"aggregateId"`
	Email       string `json:"email"`
}

// Consumer drains the user-events queue and applies the event's side effects.
// A PasswordChanged event activates its user: completing the first password
// change is what moves a freshly registered account out of PENDING.
type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	users ports.UserService
	log   zerolog.Logger
}

// NewConsumer dials the broker and declares the durable queue.
func NewConsumer(url, queue string, users ports.UserService, log zerolog.Logger) (*Consumer, error) {
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

	return &Consumer{conn: conn, ch: ch, queue: queue, users: users, log: log}, nil
}

// Start launches the delivery loop. The loop stops when ctx is cancelled or
// the channel is closed. Handled and dropped messages are acked; transient
// failures are nacked back onto the queue.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.ch.Consume(
		c.queue,
		consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	go c.run(ctx, deliveries)
	return nil
}

func (c *Consumer) run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := c.handle(ctx, d.Type, d.Body); err != nil {
				c.log.Error().Err(err).
					Str("event", d.Type).
					Str("message_id", d.MessageId).
					Msg("event handling failed, requeueing")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle processes one delivery. Malformed bodies, foreign event types and
// terminal domain outcomes return nil so the message is acked and dropped;
// only transient failures return an error.
func (c *Consumer) handle(ctx context.Context, eventType string, body []byte) error {
	var msg passwordChangedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		c.log.Error().Err(err).Str("event", eventType).Msg("dropping malformed event")
		return nil
	}

	name := eventType
	if name == "" {
		name = msg.EventName
	}
	if name != domain.EventNamePasswordChanged {
		c.log.Debug().Str("event", name).Msg("ignoring event")
		return nil
	}

	if _, err := c.users.Activate(ctx, msg.AggregateID); err != nil {
		switch {
		case errors.Is(err, domain.ErrBusinessRuleViolation):
			// Already active or deactivated. Redeliveries land here, so the
			// handler stays idempotent.
			c.log.Debug().
				Str("user_id", msg.AggregateID).
				Msg("password change needs no activation")
			return nil
		case errors.Is(err, domain.ErrUserNotFound):
			c.log.Warn().
				Str("user_id", msg.AggregateID).
				Msg("password change for unknown user, dropping event")
			return nil
		case errors.Is(err, domain.ErrInconsistency):
			// Drift is never auto-corrected; requeueing would spin forever.
			c.log.Error().Err(err).
				Str("user_id", msg.AggregateID).
				Msg("activation blocked by cross-system drift, dropping event")
			return nil
		default:
			return fmt.Errorf("activate user %s: %w", msg.AggregateID, err)
		}
	}

	c.log.Info().
		Str("user_id", msg.AggregateID).
		Str("event_id", msg.EventID).
		Msg("user activated after password change")
	return nil
}

// Close shuts down the channel and connection, ending the delivery loop.
func (c *Consumer) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
