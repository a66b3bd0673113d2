package consumers

import (
	"context"
	"fmt"

	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
	"github.com/resumekit/resumekit-backend/pkg/objectstore"
)

const queueAccountEvents = "resume-service.account-events"

// AccountCleanupConsumer removes stored uploads of deleted accounts.
// Rows are already gone through the account foreign keys; only objects remain.
type AccountCleanupConsumer struct {
	consumer *messaging.Consumer
	store    objectstore.Store
	logger   *logger.Logger
}

// NewAccountCleanupConsumer declares the queue and binds it to account deletions
func NewAccountCleanupConsumer(rmq *messaging.RabbitMQ, store objectstore.Store, log *logger.Logger) (*AccountCleanupConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, queueAccountEvents, log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeAccountEvents, messaging.EventAccountDeleted); err != nil {
		return nil, err
	}

	c := &AccountCleanupConsumer{
		consumer: consumer,
		store:    store,
		logger:   log.WithComponent("account-cleanup"),
	}
	consumer.RegisterHandler(messaging.EventAccountDeleted, c.handleAccountDeleted)

	return c, nil
}

// Start starts consuming messages
func (c *AccountCleanupConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *AccountCleanupConsumer) handleAccountDeleted(ctx context.Context, event *messaging.Event) error {
	var data messaging.AccountDeletedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}
	if data.AccountID == "" {
		c.logger.Warn().Str("event_id", event.ID).Msg("account deleted event without account id")
		return nil
	}

	removed, err := c.store.DeletePrefix(ctx, objectstore.AccountPrefix(data.AccountID))
	if err != nil {
		return fmt.Errorf("remove uploads of account %s: %w", data.AccountID, err)
	}

	c.logger.Info().
		Str("account_id", data.AccountID).
		Int("objects", removed).
		Msg("removed uploads of deleted account")
	return nil
}
