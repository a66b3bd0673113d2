package events_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/internal/auth/events"
	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
	"github.com/resumekit/resumekit-backend/pkg/testutil"
)

func TestAccountEventPublisher_PublishCreated(t *testing.T) {
	sink := testutil.NewMockPublisher()
	p := events.NewAccountEventPublisherWithSink(sink, logger.Nop())

	p.PublishCreated(context.Background(), "a-1", "ada@example.com", "Ada")

	got := sink.Events(messaging.EventAccountCreated)
	require.Len(t, got, 1)
	assert.Equal(t, messaging.AccountCreatedEvent{AccountID: "a-1", Email: "ada@example.com", Name: "Ada"}, got[0])
}

func TestAccountEventPublisher_PublishDeleted(t *testing.T) {
	sink := testutil.NewMockPublisher()
	p := events.NewAccountEventPublisherWithSink(sink, logger.Nop())

	p.PublishDeleted(context.Background(), "a-1", "ada@example.com")

	got := sink.Events(messaging.EventAccountDeleted)
	require.Len(t, got, 1)
	assert.Equal(t, messaging.AccountDeletedEvent{AccountID: "a-1", Email: "ada@example.com"}, got[0])
	assert.Empty(t, sink.Events(messaging.EventAccountCreated))
}

func TestAccountEventPublisher_FailureIsLogged(t *testing.T) {
	sink := testutil.NewMockPublisher()
	sink.Err = errors.New("connection reset")
	var buf bytes.Buffer
	p := events.NewAccountEventPublisherWithSink(sink, logger.NewWithWriter(&buf, "test"))

	p.PublishDeleted(context.Background(), "a-1", "ada@example.com")

	assert.Contains(t, buf.String(), "failed to publish account deleted event")
	assert.Contains(t, buf.String(), "a-1")
}

func TestAccountEventPublisher_NilIsNoop(t *testing.T) {
	var p *events.AccountEventPublisher

	assert.NotPanics(t, func() {
		p.PublishCreated(context.Background(), "a-1", "ada@example.com", "Ada")
		p.PublishDeleted(context.Background(), "a-1", "ada@example.com")
	})
}
