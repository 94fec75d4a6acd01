package store

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"meridian/internal/investor/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in memory for tests and database-less runs.
// Profiles are copied in and out so callers never share state with the store.
type InMemoryStore struct {
	mu          sync.RWMutex
	profiles    map[domain.InvestorID]*models.Profile
	byApplicant map[string]domain.InvestorID
	history     map[domain.InvestorID][]models.HistoryEntry
}

// NewInMemory constructs an empty in-memory investor store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		profiles:    make(map[domain.InvestorID]*models.Profile),
		byApplicant: make(map[string]domain.InvestorID),
		history:     make(map[domain.InvestorID][]models.HistoryEntry),
	}
}

func (s *InMemoryStore) Create(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.ID]; exists {
		return sentinel.ErrConflict
	}
	if applicant := profile.ApplicantID(); applicant != "" {
		if _, taken := s.byApplicant[applicant]; taken {
			return sentinel.ErrConflict
		}
		s.byApplicant[applicant] = profile.ID
	}
	s.profiles[profile.ID] = profile.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, investorID domain.InvestorID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[investorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemoryStore) FindByApplicantID(_ context.Context, applicantID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	investorID, ok := s.byApplicant[applicantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.profiles[investorID].Clone(), nil
}

func (s *InMemoryStore) UpdateIfVersion(_ context.Context, profile *models.Profile, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[profile.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Version != expected {
		return sentinel.ErrVersionConflict
	}
	newApplicant := profile.ApplicantID()
	if newApplicant != "" {
		if owner, taken := s.byApplicant[newApplicant]; taken && owner != profile.ID {
			return sentinel.ErrConflict
		}
	}
	if old := current.ApplicantID(); old != "" && old != newApplicant {
		delete(s.byApplicant, old)
	}
	if newApplicant != "" {
		s.byApplicant[newApplicant] = profile.ID
	}
	profile.Version = expected + 1
	s.profiles[profile.ID] = profile.Clone()
	return nil
}

func (s *InMemoryStore) AppendHistory(_ context.Context, entries ...models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, ok := s.profiles[e.InvestorID]; !ok {
			return sentinel.ErrNotFound
		}
		s.history[e.InvestorID] = append(s.history[e.InvestorID], e)
	}
	return nil
}

func (s *InMemoryStore) ListHistory(_ context.Context, investorID domain.InvestorID) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.profiles[investorID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]models.HistoryEntry, len(s.history[investorID]))
	copy(out, s.history[investorID])
	return out, nil
}

func (s *InMemoryStore) ListReconcilable(_ context.Context, after ReconcileCursor, limit int) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0)
	for _, p := range s.profiles {
		if !reconcilable(p) || !after.before(p) {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return CursorAfter(out[i]).before(out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func reconcilable(p *models.Profile) bool {
	return p.ComplianceStatus == domain.StatusPendingReview &&
		p.ApplicantID() != "" &&
		p.StatusSource != models.SourceManual
}

// before orders like the Postgres row comparison (updated_at, id).
func (c ReconcileCursor) before(p *models.Profile) bool {
	if !c.UpdatedAt.Equal(p.UpdatedAt) {
		return c.UpdatedAt.Before(p.UpdatedAt)
	}
	return bytes.Compare(c.ID[:], p.ID[:]) < 0
}

func (s *InMemoryStore) Delete(_ context.Context, investorID domain.InvestorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[investorID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if applicant := p.ApplicantID(); applicant != "" {
		delete(s.byApplicant, applicant)
	}
	delete(s.profiles, investorID)
	delete(s.history, investorID)
	return nil
}

// InMemoryInvestments is a test double for the investments table.
type InMemoryInvestments struct {
	mu     sync.RWMutex
	counts map[domain.InvestorID]int64
}

func NewInMemoryInvestments() *InMemoryInvestments {
	return &InMemoryInvestments{counts: make(map[domain.InvestorID]int64)}
}

// Add records one investment for the investor.
func (s *InMemoryInvestments) Add(investorID domain.InvestorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[investorID]++
}

func (s *InMemoryInvestments) CountByInvestor(_ context.Context, investorID domain.InvestorID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[investorID], nil
}
