package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"meridian/internal/disclosure"
	"meridian/internal/disclosure/models"
	"meridian/internal/disclosure/store"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/sentinel"
)

type Option func(*Service)

// Service maintains deal compliance profiles. Requirement flags are always
// re-derived on write so stored flags never drift from the resolver.
type Service struct {
	store   store.Store
	auditor audit.Emitter
	logger  *slog.Logger
	now     func() time.Time
}

func New(st store.Store, auditor audit.Emitter, opts ...Option) *Service {
	if st == nil {
		panic("deal store is required")
	}
	if auditor == nil {
		panic("auditor is required")
	}
	svc := &Service{
		store:   st,
		auditor: auditor,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Upsert creates or replaces a deal profile. Edits go through the store's
// locked update, so a regulator approval recorded concurrently is kept.
func (s *Service) Upsert(ctx context.Context, dealID domain.DealID, req *models.UpsertDealRequest, actor string) (*models.DealProfile, error) {
	if dealID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "deal ID is required")
	}
	now := s.now()
	edit := func(d *models.DealProfile) error {
		d.IssuerCountry = req.IssuerCountry
		d.Compartment = req.Compartment()
		d.Instrument = models.NormalizeInstrument(req.InstrumentType)
		d.MinimumInvestment = req.Minimum()
		d.RiskLevel = req.RiskLevel
		d.UpdatedAt = now
		d.ApplyRequirements(disclosure.ResolveForDeal(d))
		return nil
	}

	deal, err := s.store.Update(ctx, dealID, edit)
	if errors.Is(err, sentinel.ErrNotFound) {
		deal = &models.DealProfile{DealID: dealID, CreatedAt: now}
		_ = edit(deal)
		err = s.store.Create(ctx, deal)
		if errors.Is(err, sentinel.ErrConflict) {
			// Another request inserted first; edit its row instead.
			deal, err = s.store.Update(ctx, dealID, edit)
		}
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save deal")
	}

	if !deal.Instrument.Known() {
		s.logger.WarnContext(ctx, "deal saved with unclassified instrument",
			"deal_id", dealID.String(),
			"instrument_type", deal.Instrument.String(),
		)
	}
	s.emitAudit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		Subject:  "deal:" + dealID.String(),
		Action:   models.AuditActionDealProfileSaved,
		ActorID:  actor,
		Details: map[string]string{
			"compartment_type":   deal.Compartment.String(),
			"instrument_type":    deal.Instrument.String(),
			"minimum_investment": deal.MinimumInvestment.String(),
		},
	})
	return deal, nil
}

// Get returns a deal profile.
func (s *Service) Get(ctx context.Context, dealID domain.DealID) (*models.DealProfile, error) {
	deal, err := s.store.FindByID(ctx, dealID)
	if err != nil {
		return nil, translateStoreError(err, "failed to load deal")
	}
	return deal, nil
}

// SetRegulatorApproval records a human sign-off (or its withdrawal) and
// re-derives the requirement flags in the same update.
func (s *Service) SetRegulatorApproval(ctx context.Context, dealID domain.DealID, approved bool, actor string) (*models.DealProfile, error) {
	if actor == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "approver is required")
	}
	now := s.now()
	deal, err := s.store.Update(ctx, dealID, func(d *models.DealProfile) error {
		d.SetRegulatorApproval(approved, actor, now)
		d.ApplyRequirements(disclosure.ResolveForDeal(d))
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, "failed to update regulator approval")
	}

	action := models.AuditActionRegulatorApprovalSet
	if !approved {
		action = models.AuditActionRegulatorApprovalUnset
	}
	s.emitAudit(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		Subject:  "deal:" + dealID.String(),
		Action:   action,
		Decision: strconv.FormatBool(approved),
		ActorID:  actor,
	})
	return deal, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"subject", event.Subject,
		)
	}
}

func translateStoreError(err error, msg string) error {
	var domainErr *dErrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "deal not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
