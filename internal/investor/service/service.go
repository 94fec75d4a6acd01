package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meridian/internal/investor/models"
	"meridian/internal/investor/store"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/sentinel"
)

type Option func(*Service)

// Service owns investor registration, classification and screening data.
// Compliance status transitions live in the compliance service.
type Service struct {
	store       store.Store
	tx          store.Tx
	investments store.InvestmentCounter
	auditor     audit.Emitter
	logger      *slog.Logger
	now         func() time.Time
}

// New constructs the investor service. All ports are required.
func New(st store.Store, tx store.Tx, investments store.InvestmentCounter, auditor audit.Emitter, opts ...Option) *Service {
	if st == nil {
		panic("investor store is required")
	}
	if tx == nil {
		panic("investor tx is required")
	}
	if investments == nil {
		panic("investment counter is required")
	}
	if auditor == nil {
		panic("auditor is required")
	}
	svc := &Service{
		store:       st,
		tx:          tx,
		investments: investments,
		auditor:     auditor,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Register creates a new investor profile in pending_review.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, registeredBy string) (*models.Profile, error) {
	profile, err := models.NewProfile(domain.NewInvestorID(), req.CountryCode, req.Type(), req.IsPEP, req.IsSanctioned, req.Tags, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, profile); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "investor already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create investor")
	}

	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryCompliance,
		InvestorID: profile.ID,
		Action:     models.AuditActionInvestorRegistered,
		Decision:   string(profile.ComplianceStatus),
		ActorID:    registeredBy,
		Details: map[string]string{
			"country_code":  profile.CountryCode,
			"investor_type": string(profile.InvestorType),
		},
	})
	return profile, nil
}

// Get returns an investor profile.
func (s *Service) Get(ctx context.Context, investorID domain.InvestorID) (*models.Profile, error) {
	profile, err := s.store.FindByID(ctx, investorID)
	if err != nil {
		return nil, translateStoreError(err, "failed to load investor")
	}
	return profile, nil
}

// History returns the ordered change log for tracked fields.
func (s *Service) History(ctx context.Context, investorID domain.InvestorID) ([]models.HistoryEntry, error) {
	entries, err := s.store.ListHistory(ctx, investorID)
	if err != nil {
		return nil, translateStoreError(err, "failed to load investor history")
	}
	return entries, nil
}

// Reclassify changes the investor type under the investor lock and records
// the change. Reclassifying to the current type is a no-op.
func (s *Service) Reclassify(ctx context.Context, investorID domain.InvestorID, investorType, reviewedBy, notes string) (*models.Profile, error) {
	if reviewedBy == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reviewer is required")
	}
	newType, err := domain.ParseInvestorType(investorType)
	if err != nil {
		return nil, err
	}

	var (
		updated *models.Profile
		entry   models.HistoryEntry
		changed bool
	)
	err = s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		profile, err := st.FindByID(ctx, investorID)
		if err != nil {
			return err
		}
		expected := profile.Version
		entry, changed = profile.Reclassify(newType, reviewedBy, notes, s.now())
		if changed {
			if err := st.UpdateIfVersion(ctx, profile, expected); err != nil {
				return err
			}
			if err := st.AppendHistory(ctx, entry); err != nil {
				return err
			}
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, "failed to reclassify investor")
	}

	if changed {
		s.logger.InfoContext(ctx, "investor reclassified",
			"investor_id", investorID.String(),
			"previous", entry.Previous,
			"new", entry.New,
			"reviewed_by", reviewedBy,
		)
		s.emitAudit(ctx, audit.Event{
			Category:   audit.CategoryCompliance,
			InvestorID: investorID,
			Action:     models.AuditActionInvestorReclassified,
			Decision:   entry.New,
			Reason:     notes,
			ActorID:    reviewedBy,
			Details:    map[string]string{"previous": entry.Previous},
		})
	}
	return updated, nil
}

// UpdateScreening replaces PEP and sanctions flags and recomputes risk.
func (s *Service) UpdateScreening(ctx context.Context, investorID domain.InvestorID, isPEP, isSanctioned bool, actor string) (*models.Profile, error) {
	var updated *models.Profile
	err := s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		profile, err := st.FindByID(ctx, investorID)
		if err != nil {
			return err
		}
		expected := profile.Version
		profile.UpdateScreening(isPEP, isSanctioned, s.now())
		if err := st.UpdateIfVersion(ctx, profile, expected); err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, "failed to update screening")
	}

	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryCompliance,
		InvestorID: investorID,
		Action:     models.AuditActionScreeningUpdated,
		ActorID:    actor,
		Details: map[string]string{
			"is_pep":        fmt.Sprintf("%t", isPEP),
			"is_sanctioned": fmt.Sprintf("%t", isSanctioned),
			"risk_score":    fmt.Sprintf("%d", updated.RiskScore),
		},
	})
	return updated, nil
}

// LinkApplicant associates a verification provider applicant with the
// investor. An applicant id may belong to one investor only.
func (s *Service) LinkApplicant(ctx context.Context, investorID domain.InvestorID, applicantID, actor string) (*models.Profile, error) {
	if applicantID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "applicant_id is required")
	}
	var updated *models.Profile
	err := s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		profile, err := st.FindByID(ctx, investorID)
		if err != nil {
			return err
		}
		if profile.ApplicantID() == applicantID {
			updated = profile
			return nil
		}
		expected := profile.Version
		profile.LinkApplicant(applicantID, s.now())
		if err := st.UpdateIfVersion(ctx, profile, expected); err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "applicant is linked to another investor")
		}
		return nil, translateStoreError(err, "failed to link applicant")
	}

	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryVerification,
		InvestorID: investorID,
		Action:     models.AuditActionApplicantLinked,
		Subject:    applicantID,
		ActorID:    actor,
	})
	return updated, nil
}

// Delete removes an investor with no investments. Investors with
// investments cannot be deleted.
func (s *Service) Delete(ctx context.Context, investorID domain.InvestorID, actor string) error {
	err := s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		if _, err := st.FindByID(ctx, investorID); err != nil {
			return err
		}
		count, err := s.investments.CountByInvestor(ctx, investorID)
		if err != nil {
			return err
		}
		if count > 0 {
			return dErrors.Newf(dErrors.CodeConflict, "investor has %d investments and cannot be deleted", count)
		}
		return st.Delete(ctx, investorID)
	})
	if err != nil {
		return translateStoreError(err, "failed to delete investor")
	}

	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryCompliance,
		InvestorID: investorID,
		Action:     models.AuditActionInvestorDeleted,
		ActorID:    actor,
	})
	return nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"investor_id", event.InvestorID.String(),
		)
	}
}

// translateStoreError maps store sentinels to domain errors. Domain errors
// pass through unchanged.
func translateStoreError(err error, msg string) error {
	var domainErr *dErrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "investor not found")
	case errors.Is(err, sentinel.ErrVersionConflict):
		return dErrors.New(dErrors.CodeConflict, "investor was modified concurrently, retry")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "conflicting investor data")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
