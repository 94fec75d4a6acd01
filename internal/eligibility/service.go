package eligibility

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	disclosureModels "meridian/internal/disclosure/models"
	"meridian/internal/eligibility/metrics"
	investorModels "meridian/internal/investor/models"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/sentinel"
)

// loadTimeout bounds loading both profiles.
const loadTimeout = 5 * time.Second

// AuditActionEvaluated is the audit action for every decision.
const AuditActionEvaluated = "eligibility_evaluated"

type Option func(*Service)

// Service loads profiles and runs the evaluator. It never mutates state.
type Service struct {
	evaluator *Evaluator
	investors InvestorReader
	deals     DealReader
	auditor   audit.Emitter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the eligibility service. All ports are required.
func NewService(evaluator *Evaluator, investors InvestorReader, deals DealReader, auditor audit.Emitter, opts ...Option) *Service {
	if evaluator == nil {
		panic("eligibility.NewService: evaluator is required")
	}
	if investors == nil {
		panic("eligibility.NewService: investor reader is required")
	}
	if deals == nil {
		panic("eligibility.NewService: deal reader is required")
	}
	if auditor == nil {
		panic("eligibility.NewService: auditor is required")
	}
	s := &Service{
		evaluator: evaluator,
		investors: investors,
		deals:     deals,
		auditor:   auditor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateByID loads the investor and deal in parallel and evaluates them.
// A denial is a normal Decision; errors mean a profile could not be loaded.
func (s *Service) EvaluateByID(ctx context.Context, investorID domain.InvestorID, dealID domain.DealID, amount *decimal.Decimal) (Decision, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveEvaluateLatency(time.Since(start))
		}
	}()

	investor, deal, err := s.load(ctx, investorID, dealID)
	if err != nil {
		return Decision{}, err
	}

	decision := s.evaluator.EvaluateWithAmount(investor, deal, amount)

	if s.metrics != nil {
		s.metrics.IncDecision(outcomeLabel(decision), string(decision.PrimaryReason))
	}
	s.logger.InfoContext(ctx, "eligibility evaluated",
		"investor_id", investorID.String(),
		"deal_id", dealID.String(),
		"allowed", decision.Allowed,
		"reason", string(decision.PrimaryReason),
	)
	s.emitAudit(ctx, investorID, dealID, amount, decision)
	return decision, nil
}

func (s *Service) load(ctx context.Context, investorID domain.InvestorID, dealID domain.DealID) (*investorModels.Profile, *disclosureModels.DealProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// Each goroutine writes only its own result.
	var (
		investor *investorModels.Profile
		deal     *disclosureModels.DealProfile
	)
	g.Go(func() error {
		begin := time.Now()
		p, err := s.investors.FindByID(ctx, investorID)
		s.observeLoad("investor", begin)
		if err != nil {
			return translateLoadError(err, "investor")
		}
		investor = p
		return nil
	})
	g.Go(func() error {
		begin := time.Now()
		d, err := s.deals.FindByID(ctx, dealID)
		s.observeLoad("deal", begin)
		if err != nil {
			return translateLoadError(err, "deal")
		}
		deal = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return investor, deal, nil
}

func (s *Service) observeLoad(kind string, begin time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveLoadLatency(kind, time.Since(begin))
	}
}

// emitAudit records the decision. Evaluations are advisory, so audit is
// best effort and never changes the response.
func (s *Service) emitAudit(ctx context.Context, investorID domain.InvestorID, dealID domain.DealID, amount *decimal.Decimal, d Decision) {
	details := map[string]string{
		"deal_id": dealID.String(),
		"reasons": joinReasons(d.Reasons),
	}
	if amount != nil {
		details["amount"] = amount.String()
	}
	event := audit.Event{
		Category:   audit.CategoryEligibility,
		InvestorID: investorID,
		Subject:    dealID.String(),
		Action:     AuditActionEvaluated,
		Decision:   outcomeLabel(d),
		Reason:     string(d.PrimaryReason),
		Details:    details,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"investor_id", investorID.String(),
		)
	}
}

func outcomeLabel(d Decision) string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}

func joinReasons(reasons []Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func translateLoadError(err error, kind string) error {
	var domainErr *dErrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, kind+" not found")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "timed out loading "+kind)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+kind)
	}
}
