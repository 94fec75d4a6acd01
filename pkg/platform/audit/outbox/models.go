package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a pending event in the outbox table. It is written in the same
// transaction as the state change it describes and published to Kafka later.
type Entry struct {
	ID            uuid.UUID
	AggregateType string // "investor" or "deal"
	AggregateID   string
	EventType     string // audit action, e.g. "compliance_status_changed"
	Payload       []byte // JSON-encoded audit.Event
	CreatedAt     time.Time
	ProcessedAt   *time.Time // nil until published
}

// IsPending returns true if this entry has not been processed yet.
func (e *Entry) IsPending() bool {
	return e.ProcessedAt == nil
}

// NewEntry creates a new outbox entry with a generated UUID.
func NewEntry(aggregateType, aggregateID, eventType string, payload []byte, createdAt time.Time) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     createdAt,
	}
}
