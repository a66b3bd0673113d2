package events

import (
	"context"

	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
)

// EventSink is satisfied by *messaging.Publisher
type EventSink interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// AccountEventPublisher publishes account lifecycle events.
// A nil publisher is valid and publishes nothing.
type AccountEventPublisher struct {
	sink   EventSink
	logger *logger.Logger
}

// NewAccountEventPublisher declares the account exchange and returns a publisher on it
func NewAccountEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*AccountEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeAccountEvents, "auth-service", log)
	if err != nil {
		return nil, err
	}
	return NewAccountEventPublisherWithSink(publisher, log), nil
}

// NewAccountEventPublisherWithSink wraps an existing sink
func NewAccountEventPublisherWithSink(sink EventSink, log *logger.Logger) *AccountEventPublisher {
	return &AccountEventPublisher{sink: sink, logger: log.WithComponent("account-events")}
}

// PublishCreated announces a new account
func (p *AccountEventPublisher) PublishCreated(ctx context.Context, accountID, email, name string) {
	if p == nil {
		return
	}
	data := messaging.AccountCreatedEvent{AccountID: accountID, Email: email, Name: name}
	if err := p.sink.Publish(ctx, messaging.EventAccountCreated, data); err != nil {
		p.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to publish account created event")
	}
}

// PublishDeleted announces a removed account so its stored files can be cleaned up
func (p *AccountEventPublisher) PublishDeleted(ctx context.Context, accountID, email string) {
	if p == nil {
		return
	}
	data := messaging.AccountDeletedEvent{AccountID: accountID, Email: email}
	if err := p.sink.Publish(ctx, messaging.EventAccountDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to publish account deleted event")
	}
}
