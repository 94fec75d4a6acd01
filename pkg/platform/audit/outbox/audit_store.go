package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	audit "meridian/pkg/platform/audit"
)

// AuditStore implements audit.Store by writing events into the outbox, so
// they reach Kafka through the worker instead of a direct table insert.
type AuditStore struct {
	store Store
}

func NewAuditStore(store Store) *AuditStore {
	return &AuditStore{store: store}
}

func (s *AuditStore) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	aggregateType, aggregateID := "investor", event.InvestorID.String()
	if event.InvestorID.IsNil() {
		aggregateType, aggregateID = "subject", event.Subject
	}
	entry := NewEntry(aggregateType, aggregateID, event.Action, payload, event.Timestamp)
	return s.store.Append(ctx, entry)
}
