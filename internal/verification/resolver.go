package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"meridian/internal/verification/metrics"
	"meridian/internal/verification/provider"
	"meridian/internal/verification/tracer"
	"meridian/pkg/platform/circuit"
	"meridian/pkg/platform/sentinel"
)

const (
	defaultTimeout = 5 * time.Second

	diagnosticNotConfigured = "verification provider not configured"
	diagnosticCircuitOpen   = "verification provider circuit open"
	diagnosticTimeout       = "verification provider timed out"
)

// ApplicantCache maps an external id to the provider applicant id.
type ApplicantCache interface {
	// Get returns sentinel.ErrNotFound on a miss.
	Get(ctx context.Context, externalID string) (string, error)
	Set(ctx context.Context, externalID, applicantID string) error
}

type Option func(*Resolver)

// Resolver queries the provider and maps its answer. It never returns an
// error: every failure becomes a StatusError result.
type Resolver struct {
	client  provider.Client
	timeout time.Duration
	breaker *circuit.Breaker
	cache   ApplicantCache
	tracer  tracer.Tracer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds a resolver. A nil client means verification is not configured
// and every call resolves to StatusError.
func New(client provider.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:  client,
		timeout: defaultTimeout,
		breaker: circuit.New("verification-provider"),
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Resolver) {
		if b != nil {
			r.breaker = b
		}
	}
}

func WithApplicantCache(c ApplicantCache) Option {
	return func(r *Resolver) {
		r.cache = c
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Configured reports whether a provider client was supplied.
func (r *Resolver) Configured() bool {
	return r.client != nil
}

// Resolve finds the applicant for externalID and resolves its status. No
// applicant means the investor has not started verification.
func (r *Resolver) Resolve(ctx context.Context, externalID string) Result {
	ctx, span := r.tracer.Start(ctx, tracer.SpanResolve,
		tracer.String(tracer.AttrExternalID, tracer.HashIdentifier(externalID)),
	)
	result := r.resolve(ctx, externalID, span)
	span.SetAttributes(tracer.String(tracer.AttrStatus, result.Status.String()))
	span.End(nil)
	r.recordResult(result)
	return result
}

// ResolveApplicant resolves the status of a known applicant.
func (r *Resolver) ResolveApplicant(ctx context.Context, applicantID string) Result {
	ctx, span := r.tracer.Start(ctx, tracer.SpanResolveApplicant,
		tracer.String(tracer.AttrApplicantID, tracer.HashIdentifier(applicantID)),
	)
	result := r.resolveApplicant(ctx, applicantID)
	span.SetAttributes(tracer.String(tracer.AttrStatus, result.Status.String()))
	span.End(nil)
	r.recordResult(result)
	return result
}

func (r *Resolver) resolve(ctx context.Context, externalID string, span tracer.Span) Result {
	if !r.Configured() {
		return errorResult("", diagnosticNotConfigured)
	}
	if externalID == "" {
		return errorResult("", "external id is required")
	}

	applicantID, cached := r.cachedApplicant(ctx, externalID)
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, cached))
	if !cached {
		applicant, res, ok := r.findApplicant(ctx, externalID)
		if !ok {
			return res
		}
		if applicant == nil {
			return Result{Status: StatusNotStarted}
		}
		applicantID = applicant.ID
		r.storeApplicant(ctx, externalID, applicantID)
	}
	return r.resolveApplicant(ctx, applicantID)
}

func (r *Resolver) resolveApplicant(ctx context.Context, applicantID string) Result {
	if !r.Configured() {
		return errorResult(applicantID, diagnosticNotConfigured)
	}
	if applicantID == "" {
		return errorResult("", "applicant id is required")
	}
	if !r.allow() {
		return errorResult(applicantID, diagnosticCircuitOpen)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	callCtx, span := r.tracer.Start(callCtx, tracer.SpanGetStatus)
	start := time.Now()
	st, err := r.client.GetApplicantStatus(callCtx, applicantID)
	r.observeCall("get_status", err, start)
	span.End(err)
	if err != nil {
		r.recordFailure(ctx, "get_status", err)
		return errorResult(applicantID, diagnosticFor(callCtx, err))
	}
	r.recordSuccess()

	if st == nil {
		return errorResult(applicantID, "verification provider returned no status")
	}
	return Result{
		Status:       MapReviewState(st.ReviewStatus, st.ReviewResult.ReviewAnswer),
		ApplicantID:  applicantID,
		ReviewStatus: st.ReviewStatus,
		ReviewAnswer: st.ReviewResult.ReviewAnswer,
	}
}

// findApplicant returns ok=false with an error result when the lookup failed.
func (r *Resolver) findApplicant(ctx context.Context, externalID string) (*provider.Applicant, Result, bool) {
	if !r.allow() {
		return nil, errorResult("", diagnosticCircuitOpen), false
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	callCtx, span := r.tracer.Start(callCtx, tracer.SpanFindApplicant)
	start := time.Now()
	applicant, err := r.client.FindApplicantByExternalID(callCtx, externalID)
	r.observeCall("find_applicant", err, start)
	span.End(err)
	if err != nil {
		r.recordFailure(ctx, "find_applicant", err)
		return nil, errorResult("", diagnosticFor(callCtx, err)), false
	}
	r.recordSuccess()
	return applicant, Result{}, true
}

func (r *Resolver) cachedApplicant(ctx context.Context, externalID string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	applicantID, err := r.cache.Get(ctx, externalID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "applicant cache read failed", "error", err)
		}
		if r.metrics != nil {
			r.metrics.IncCacheMiss()
		}
		return "", false
	}
	if r.metrics != nil {
		r.metrics.IncCacheHit()
	}
	return applicantID, true
}

func (r *Resolver) storeApplicant(ctx context.Context, externalID, applicantID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, externalID, applicantID); err != nil {
		r.logger.WarnContext(ctx, "applicant cache write failed", "error", err)
	}
}

func (r *Resolver) allow() bool {
	allowed := r.breaker.Allow()
	if r.metrics != nil {
		r.metrics.SetCircuitOpen(!allowed)
	}
	return allowed
}

// recordFailure counts transient failures against the circuit. Permanent
// failures (bad credentials, unknown applicant) are logged but do not trip it.
func (r *Resolver) recordFailure(ctx context.Context, op string, err error) {
	category := provider.CategoryOf(err)
	r.logger.WarnContext(ctx, "verification provider call failed",
		"operation", op,
		"category", string(category),
		"error", err,
	)
	if !provider.IsRetryable(err) && !errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if change := r.breaker.RecordFailure(); change.Opened {
		r.logger.ErrorContext(ctx, "verification provider circuit opened", "operation", op)
		if r.metrics != nil {
			r.metrics.SetCircuitOpen(true)
		}
	}
}

func (r *Resolver) recordSuccess() {
	if change := r.breaker.RecordSuccess(); change.Closed && r.metrics != nil {
		r.metrics.SetCircuitOpen(false)
	}
}

func (r *Resolver) observeCall(op string, err error, start time.Time) {
	if r.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(provider.CategoryOf(err))
	}
	r.metrics.ObserveProviderCall(op, outcome, time.Since(start).Seconds())
}

func (r *Resolver) recordResult(result Result) {
	if r.metrics != nil {
		r.metrics.IncResult(result.Status.String())
	}
}

func diagnosticFor(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || provider.CategoryOf(err) == provider.ErrorTimeout {
		return diagnosticTimeout
	}
	return err.Error()
}
