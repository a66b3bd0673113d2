package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventAccountCreated = "account.created"
	EventAccountDeleted = "account.deleted"

	EventResumeProcessed = "resume.processed"
	EventResumeDeleted   = "resume.deleted"
)

// Exchange names
const (
	ExchangeAccountEvents = "account.events"
	ExchangeResumeEvents  = "resume.events"
)

// Event is the envelope every message travels in
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Account Events

// AccountCreatedEvent is published after sign-up
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// AccountDeletedEvent is published after an account and its rows are removed.
// Consumers clean up anything stored outside PostgreSQL.
type AccountDeletedEvent struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// Resume Events

// ResumeProcessedEvent is published once an upload is parsed and persisted
type ResumeProcessedEvent struct {
	TailoringID  string `json:"tailoring_id"`
	AccountID    string `json:"account_id"`
	Parser       string `json:"parser"`
	ObjectKey    string `json:"object_key"`
	SectionCount int    `json:"section_count"`
}

// ResumeDeletedEvent is published when a tailoring is removed
type ResumeDeletedEvent struct {
	TailoringID string `json:"tailoring_id"`
	AccountID   string `json:"account_id"`
	ObjectKey   string `json:"object_key"`
}
