package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// maxDeliveries is how often a failing message is redelivered before it is dead-lettered
const maxDeliveries = 3

// MessageHandler is a function that handles a message
type MessageHandler func(ctx context.Context, event *Event) error

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeReject
)

// Consumer handles consuming events from RabbitMQ
type Consumer struct {
	rmq       *RabbitMQ
	queueName string
	handlers  map[string]MessageHandler
	logger    *logger.Logger
}

// NewConsumer declares the queue and returns a consumer for it
func NewConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) (*Consumer, error) {
	if _, err := rmq.DeclareQueue(queueName); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		rmq:       rmq,
		queueName: queueName,
		handlers:  make(map[string]MessageHandler),
		logger:    log.WithComponent("consumer"),
	}, nil
}

// Subscribe binds the queue to an exchange with a routing key pattern
func (c *Consumer) Subscribe(exchange, routingKeyPattern string) error {
	if err := c.rmq.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := c.rmq.BindQueue(c.queueName, exchange, routingKeyPattern); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.logger.Info().
		Str("queue", c.queueName).
		Str("exchange", exchange).
		Str("routing_key", routingKeyPattern).
		Msg("subscribed to exchange")

	return nil
}

// RegisterHandler registers a handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = handler
}

// Start consumes in a background goroutine until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.rmq.Channel().Consume(
		c.queueName, // queue
		"",          // consumer tag (auto-generated)
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info().Str("queue", c.queueName).Msg("consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Str("queue", c.queueName).Msg("consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn().Str("queue", c.queueName).Msg("message channel closed")
					return
				}
				c.settle(msg, c.dispatch(ctx, msg.Body, msg.Headers))
			}
		}
	}()

	return nil
}

func (c *Consumer) settle(msg amqp.Delivery, o outcome) {
	var err error
	switch o {
	case outcomeAck:
		err = msg.Ack(false)
	case outcomeRequeue:
		err = msg.Nack(false, true)
	case outcomeReject:
		err = msg.Reject(false)
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to settle delivery")
	}
}

// dispatch decodes one delivery and runs its handler.
// Malformed bodies are rejected; events without a handler are acknowledged.
func (c *Consumer) dispatch(ctx context.Context, body []byte, headers amqp.Table) outcome {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error().Err(err).Msg("failed to unmarshal event")
		return outcomeReject
	}

	ctx = WithCorrelationID(ctx, event.CorrelationID)

	handler, ok := c.handlers[event.Type]
	if !ok {
		c.logger.Debug().Str("event_type", event.Type).Msg("no handler registered for event type")
		return outcomeAck
	}

	if err := handler(ctx, &event); err != nil {
		retryCount := deathCount(headers)
		c.logger.Error().
			Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Int("retry_count", retryCount).
			Msg("failed to process event")

		if retryCount >= maxDeliveries {
			return outcomeReject
		}
		return outcomeRequeue
	}

	return outcomeAck
}

func deathCount(headers amqp.Table) int {
	deaths, ok := headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		if d, ok := death.(amqp.Table); ok {
			if count, ok := d["count"].(int64); ok {
				return int(count)
			}
		}
	}
	return 0
}
