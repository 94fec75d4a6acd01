// Package audit records compliance-relevant actions as append-only events.
package audit

import (
	"context"
	"time"

	id "meridian/pkg/domain"
)

// EventCategory groups events by the retention and routing they need.
type EventCategory string

const (
	// CategoryCompliance covers status and classification changes. These
	// events form the regulatory record and must not be dropped.
	CategoryCompliance EventCategory = "compliance"
	// CategoryEligibility covers evaluated subscription decisions.
	CategoryEligibility EventCategory = "eligibility"
	// CategoryVerification covers provider signals, applied or ignored.
	CategoryVerification EventCategory = "verification"
	// CategoryOperations covers everything else.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory     `json:"category"`
	Timestamp  time.Time         `json:"timestamp"`
	InvestorID id.InvestorID     `json:"investor_id"`
	Subject    string            `json:"subject,omitempty"`
	Action     string            `json:"action"`
	Decision   string            `json:"decision,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	ActorID    string            `json:"actor_id,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// CategoryOrDefault returns the event category, falling back to operations
// so an unlabelled event is still persisted somewhere.
func (e Event) CategoryOrDefault() EventCategory {
	switch e.Category {
	case CategoryCompliance, CategoryEligibility, CategoryVerification, CategoryOperations:
		return e.Category
	default:
		return CategoryOperations
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is the interface services depend on for audit emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
