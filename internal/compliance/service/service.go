// Package service implements the compliance status machine. Reviewers set
// status explicitly; verification results may only move pending_review to
// approved, and only while no reviewer has taken over the decision.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"meridian/internal/compliance/metrics"
	"meridian/internal/compliance/models"
	investorModels "meridian/internal/investor/models"
	"meridian/internal/investor/store"
	"meridian/internal/verification"
	"meridian/internal/verification/provider"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/sentinel"
)

const defaultReconcileBatch = 100

type Option func(*Service)

// Service owns compliance status transitions.
type Service struct {
	store          store.Store
	tx             store.Tx
	resolver       VerificationResolver
	auditor        audit.Emitter
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
	reconcileBatch int
}

// New constructs the compliance service. All ports are required; pass a
// resolver built without a client when verification is not configured.
func New(st store.Store, tx store.Tx, resolver VerificationResolver, auditor audit.Emitter, opts ...Option) *Service {
	if st == nil {
		panic("investor store is required")
	}
	if tx == nil {
		panic("investor tx is required")
	}
	if resolver == nil {
		panic("verification resolver is required")
	}
	if auditor == nil {
		panic("auditor is required")
	}
	svc := &Service{
		store:          st,
		tx:             tx,
		resolver:       resolver,
		auditor:        auditor,
		logger:         slog.Default(),
		now:            time.Now,
		reconcileBatch: defaultReconcileBatch,
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithReconcileBatch sets how many pending investors a sweep reads per page.
func WithReconcileBatch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reconcileBatch = n
		}
	}
}

// SetStatus records a reviewer's decision. The status is parsed before any
// state is read so an invalid value leaves the profile untouched. Setting
// the current status again is still recorded: the reviewer and notes change.
func (s *Service) SetStatus(ctx context.Context, investorID domain.InvestorID, status, reviewedBy, notes string) (*investorModels.Profile, error) {
	newStatus, err := domain.ParseComplianceStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	if reviewedBy == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reviewer is required")
	}

	var (
		updated *investorModels.Profile
		entry   investorModels.HistoryEntry
	)
	err = s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		profile, err := st.FindByID(ctx, investorID)
		if err != nil {
			return err
		}
		expected := profile.Version
		entry = profile.SetStatus(newStatus, investorModels.SourceManual, reviewedBy, notes, s.now())
		if err := st.UpdateIfVersion(ctx, profile, expected); err != nil {
			return err
		}
		if err := st.AppendHistory(ctx, entry); err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, "failed to update compliance status")
	}

	s.logger.InfoContext(ctx, "compliance status set",
		"investor_id", investorID.String(),
		"previous", entry.Previous,
		"new", entry.New,
		"reviewed_by", reviewedBy,
	)
	s.incTransition(newStatus, investorModels.SourceManual)
	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryCompliance,
		InvestorID: investorID,
		Action:     models.AuditActionStatusChanged,
		Decision:   entry.New,
		Reason:     notes,
		ActorID:    reviewedBy,
		Details: map[string]string{
			"previous": entry.Previous,
			"source":   string(investorModels.SourceManual),
		},
	})
	return updated, nil
}

// ApplyVerification applies a provider result. The status is read and
// written under the investor lock, so a reviewer decision committed first
// always wins. Only an approved result moves pending_review to approved,
// and never once a reviewer has set the status manually.
func (s *Service) ApplyVerification(ctx context.Context, investorID domain.InvestorID, result verification.Result) (models.Outcome, error) {
	outcome := models.Outcome{InvestorID: investorID, Result: result}
	err := s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		profile, err := st.FindByID(ctx, investorID)
		if err != nil {
			return err
		}
		outcome.Status = profile.ComplianceStatus
		if reason, ok := ignoreReason(profile, result); ok {
			outcome.Reason = reason
			return nil
		}

		expected := profile.Version
		entry := profile.SetStatus(domain.StatusApproved, investorModels.SourceAutomatic, models.ChangedByProvider, approvalNote(result), s.now())
		if err := st.UpdateIfVersion(ctx, profile, expected); err != nil {
			return err
		}
		if err := st.AppendHistory(ctx, entry); err != nil {
			return err
		}
		outcome.Applied = true
		outcome.Status = profile.ComplianceStatus
		return nil
	})
	if err != nil {
		return models.Outcome{}, translateStoreError(err, "failed to apply verification result")
	}

	details := map[string]string{
		"verification_status": result.Status.String(),
		"compliance_status":   string(outcome.Status),
	}
	if result.ApplicantID != "" {
		details["applicant_id"] = result.ApplicantID
	}
	if result.Diagnostic != "" {
		details["diagnostic"] = result.Diagnostic
	}

	if outcome.Applied {
		s.logger.InfoContext(ctx, "verification approved investor",
			"investor_id", investorID.String(),
			"applicant_id", result.ApplicantID,
		)
		s.incTransition(domain.StatusApproved, investorModels.SourceAutomatic)
		s.emitAudit(ctx, audit.Event{
			Category:   audit.CategoryCompliance,
			InvestorID: investorID,
			Action:     models.AuditActionVerificationApplied,
			Decision:   string(domain.StatusApproved),
			ActorID:    models.ChangedByProvider,
			Details:    details,
		})
		return outcome, nil
	}

	s.logger.InfoContext(ctx, "verification result ignored",
		"investor_id", investorID.String(),
		"verification_status", result.Status.String(),
		"compliance_status", string(outcome.Status),
		"reason", string(outcome.Reason),
		"diagnostic", result.Diagnostic,
	)
	if s.metrics != nil {
		s.metrics.IncIgnored(string(outcome.Reason))
	}
	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryVerification,
		InvestorID: investorID,
		Action:     models.AuditActionVerificationIgnored,
		Decision:   result.Status.String(),
		Reason:     string(outcome.Reason),
		ActorID:    models.ChangedByProvider,
		Details:    details,
	})
	return outcome, nil
}

// SyncVerification asks the provider for the investor's current result and
// applies it. Investors without a linked applicant are looked up by their
// investor id as the provider's external user id; a found applicant is
// linked before the result is applied.
func (s *Service) SyncVerification(ctx context.Context, investorID domain.InvestorID, actor string) (models.Outcome, error) {
	if !s.resolver.Configured() {
		return models.Outcome{}, dErrors.New(dErrors.CodeUnavailable, "verification provider is not configured")
	}
	profile, err := s.store.FindByID(ctx, investorID)
	if err != nil {
		return models.Outcome{}, translateStoreError(err, "failed to load investor")
	}

	var result verification.Result
	if applicantID := profile.ApplicantID(); applicantID != "" {
		result = s.resolver.ResolveApplicant(ctx, applicantID)
	} else {
		result = s.resolver.Resolve(ctx, investorID.String())
		if result.ApplicantID != "" {
			if err := s.linkApplicant(ctx, investorID, result.ApplicantID, actor); err != nil {
				return models.Outcome{}, err
			}
		}
	}
	if result.Status == verification.StatusError {
		s.emitAudit(ctx, audit.Event{
			Category:   audit.CategoryVerification,
			InvestorID: investorID,
			Action:     models.AuditActionVerificationSyncFault,
			Reason:     result.Diagnostic,
			ActorID:    actor,
		})
	}
	return s.ApplyVerification(ctx, investorID, result)
}

// HandleWebhook reacts to a verified provider callback. The payload only
// identifies the applicant; the status is re-read from the provider.
func (s *Service) HandleWebhook(ctx context.Context, payload *provider.WebhookPayload) (models.Outcome, error) {
	if payload == nil {
		return models.Outcome{}, dErrors.New(dErrors.CodeBadRequest, "webhook payload is required")
	}
	profile, err := s.findWebhookInvestor(ctx, payload)
	if err != nil {
		s.incWebhook("unmatched")
		return models.Outcome{}, err
	}
	if !s.resolver.Configured() {
		s.incWebhook("unavailable")
		return models.Outcome{}, dErrors.New(dErrors.CodeUnavailable, "verification provider is not configured")
	}

	applicantID := profile.ApplicantID()
	if applicantID == "" && payload.ApplicantID != "" {
		if err := s.linkApplicant(ctx, profile.ID, payload.ApplicantID, models.ChangedByProvider); err != nil {
			s.incWebhook("conflict")
			return models.Outcome{}, err
		}
		applicantID = payload.ApplicantID
	}

	s.emitAudit(ctx, audit.Event{
		Category:   audit.CategoryVerification,
		InvestorID: profile.ID,
		Action:     models.AuditActionVerificationWebhook,
		Subject:    applicantID,
		ActorID:    models.ChangedByProvider,
		Details: map[string]string{
			"type":          payload.Type,
			"review_status": payload.ReviewStatus,
		},
	})

	var result verification.Result
	if applicantID != "" {
		result = s.resolver.ResolveApplicant(ctx, applicantID)
	} else {
		result = s.resolver.Resolve(ctx, profile.ID.String())
	}
	outcome, err := s.ApplyVerification(ctx, profile.ID, result)
	if err != nil {
		s.incWebhook("error")
		return models.Outcome{}, err
	}
	if outcome.Applied {
		s.incWebhook("applied")
	} else {
		s.incWebhook("ignored")
	}
	return outcome, nil
}

// ReconcilePending re-resolves pending_review investors that have a linked
// applicant so approvals whose callback was lost still converge. The queue is
// read in pages of reconcileBatch until it is exhausted. Provider results
// other than approved are counted as ignored without auditing, so a
// still-pending review does not add an event on every sweep.
func (s *Service) ReconcilePending(ctx context.Context) (models.ReconcileResult, error) {
	var res models.ReconcileResult
	if !s.resolver.Configured() {
		return res, dErrors.New(dErrors.CodeUnavailable, "verification provider is not configured")
	}

	var (
		errs   []error
		cursor store.ReconcileCursor
	)
sweep:
	for {
		profiles, err := s.store.ListReconcilable(ctx, cursor, s.reconcileBatch)
		if err != nil {
			errs = append(errs, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending investors"))
			break
		}
		for _, profile := range profiles {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break sweep
			}
			s.reconcileOne(ctx, profile, &res, &errs)
		}
		if len(profiles) < s.reconcileBatch {
			break
		}
		cursor = store.CursorAfter(profiles[len(profiles)-1])
	}

	if s.metrics != nil {
		if len(errs) > 0 || res.Failed > 0 {
			s.metrics.IncReconcileRun("partial")
		} else {
			s.metrics.IncReconcileRun("ok")
		}
	}
	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}

func (s *Service) reconcileOne(ctx context.Context, profile *investorModels.Profile, res *models.ReconcileResult, errs *[]error) {
	res.Checked++
	result := s.resolver.ResolveApplicant(ctx, profile.ApplicantID())
	switch {
	case result.Status == verification.StatusError:
		res.Failed++
		s.logger.WarnContext(ctx, "reconcile: verification unavailable",
			"investor_id", profile.ID.String(),
			"diagnostic", result.Diagnostic,
		)
		return
	case !result.Approved():
		res.Ignored++
		return
	}

	outcome, err := s.ApplyVerification(ctx, profile.ID, result)
	if err != nil {
		res.Failed++
		*errs = append(*errs, fmt.Errorf("apply verification for %s: %w", profile.ID, err))
		return
	}
	if outcome.Applied {
		res.Applied++
	} else {
		res.Ignored++
	}
}

func (s *Service) findWebhookInvestor(ctx context.Context, payload *provider.WebhookPayload) (*investorModels.Profile, error) {
	if payload.ApplicantID != "" {
		profile, err := s.store.FindByApplicantID(ctx, payload.ApplicantID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find investor by applicant")
		}
	}
	if payload.ExternalUserID == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "no investor linked to applicant")
	}
	investorID, err := domain.ParseInvestorID(payload.ExternalUserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no investor for external user id")
	}
	profile, err := s.store.FindByID(ctx, investorID)
	if err != nil {
		return nil, translateStoreError(err, "failed to load investor")
	}
	if linked := profile.ApplicantID(); linked != "" && payload.ApplicantID != "" && linked != payload.ApplicantID {
		return nil, dErrors.New(dErrors.CodeConflict, "investor is linked to a different applicant")
	}
	return profile, nil
}

func (s *Service) linkApplicant(ctx context.Context, investorID domain.InvestorID, applicantID, actor string) error {
	linked := false
	err := s.tx.RunInTx(ctx, investorID, func(ctx context.Context, st store.Store) error {
		profile, err := st.FindByID(ctx, investorID)
		if err != nil {
			return err
		}
		if current := profile.ApplicantID(); current != "" {
			if current != applicantID {
				return dErrors.New(dErrors.CodeConflict, "investor is linked to a different applicant")
			}
			return nil
		}
		expected := profile.Version
		profile.LinkApplicant(applicantID, s.now())
		if err := st.UpdateIfVersion(ctx, profile, expected); err != nil {
			return err
		}
		linked = true
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "applicant is linked to another investor")
		}
		return translateStoreError(err, "failed to link applicant")
	}
	if linked {
		s.emitAudit(ctx, audit.Event{
			Category:   audit.CategoryVerification,
			InvestorID: investorID,
			Action:     investorModels.AuditActionApplicantLinked,
			Subject:    applicantID,
			ActorID:    actor,
		})
	}
	return nil
}

// ignoreReason reports why result must not change the profile, if any.
func ignoreReason(profile *investorModels.Profile, result verification.Result) (models.IgnoreReason, bool) {
	switch {
	case result.Status == verification.StatusError:
		return models.IgnoreProviderError, true
	case !result.Approved():
		return models.IgnoreNotApproved, true
	case profile.StatusSource == investorModels.SourceManual:
		return models.IgnoreManualOverride, true
	case profile.ComplianceStatus != domain.StatusPendingReview:
		return models.IgnoreNotPending, true
	default:
		return "", false
	}
}

func approvalNote(result verification.Result) string {
	if result.ApplicantID == "" {
		return "identity verification approved"
	}
	return "identity verification approved for applicant " + result.ApplicantID
}

func (s *Service) incTransition(status domain.ComplianceStatus, source investorModels.StatusSource) {
	if s.metrics != nil {
		s.metrics.IncTransition(string(status), string(source))
	}
}

func (s *Service) incWebhook(outcome string) {
	if s.metrics != nil {
		s.metrics.IncWebhook(outcome)
	}
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
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
