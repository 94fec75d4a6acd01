package store

import (
	"context"
	"fmt"
	"sync"

	"meridian/internal/disclosure/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/sentinel"
)

// InMemoryStore keeps deal profiles in a map. Values are copied on the way in
// and out so callers never share state with the store.
type InMemoryStore struct {
	mu    sync.RWMutex
	deals map[domain.DealID]*models.DealProfile
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{deals: make(map[domain.DealID]*models.DealProfile)}
}

func (s *InMemoryStore) Create(_ context.Context, deal *models.DealProfile) error {
	if deal == nil {
		return fmt.Errorf("deal profile is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[deal.DealID]; ok {
		return sentinel.ErrConflict
	}
	s.deals[deal.DealID] = deal.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, dealID domain.DealID) (*models.DealProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deal, ok := s.deals[dealID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return deal.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, dealID domain.DealID, fn func(*models.DealProfile) error) (*models.DealProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.deals[dealID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.deals[dealID] = next.Clone()
	return next, nil
}
