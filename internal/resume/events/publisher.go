package events

import (
	"context"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
)

// EventSink is satisfied by *messaging.Publisher
type EventSink interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// ResumeEventPublisher publishes resume lifecycle events. Failures are logged, never returned.
type ResumeEventPublisher struct {
	sink   EventSink
	logger *logger.Logger
}

// NewResumeEventPublisher declares the resume exchange and returns a publisher on it
func NewResumeEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ResumeEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeResumeEvents, "resume-service", log)
	if err != nil {
		return nil, err
	}
	return NewResumeEventPublisherWithSink(publisher, log), nil
}

// NewResumeEventPublisherWithSink wraps an existing sink
func NewResumeEventPublisherWithSink(sink EventSink, log *logger.Logger) *ResumeEventPublisher {
	return &ResumeEventPublisher{sink: sink, logger: log.WithComponent("resume-events")}
}

// PublishProcessed announces a persisted upload
func (p *ResumeEventPublisher) PublishProcessed(ctx context.Context, t *domain.Tailoring, sectionCount int) {
	if p == nil {
		return
	}

	data := messaging.ResumeProcessedEvent{
		TailoringID:  t.ID,
		AccountID:    t.AccountID,
		Parser:       t.Parser,
		ObjectKey:    t.ObjectKey,
		SectionCount: sectionCount,
	}

	if err := p.sink.Publish(ctx, messaging.EventResumeProcessed, data); err != nil {
		p.logger.Error().Err(err).Str("tailoring_id", t.ID).Msg("failed to publish resume processed event")
	}
}

// PublishDeleted announces a removed tailoring
func (p *ResumeEventPublisher) PublishDeleted(ctx context.Context, t *domain.Tailoring) {
	if p == nil {
		return
	}

	data := messaging.ResumeDeletedEvent{
		TailoringID: t.ID,
		AccountID:   t.AccountID,
		ObjectKey:   t.ObjectKey,
	}

	if err := p.sink.Publish(ctx, messaging.EventResumeDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("tailoring_id", t.ID).Msg("failed to publish resume deleted event")
	}
}
