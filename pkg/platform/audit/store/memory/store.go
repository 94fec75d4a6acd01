package memory

import (
	"context"
	"sync"

	id "meridian/pkg/domain"
	audit "meridian/pkg/platform/audit"
)

// InMemoryStore keeps audit events in memory for tests and database-less runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByInvestor returns events for one investor in insertion order.
func (s *InMemoryStore) ListByInvestor(_ context.Context, investorID id.InvestorID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.InvestorID == investorID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListAll returns every event in insertion order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}
