package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	compliancehandler "meridian/internal/compliance/handler"
	compliancemetrics "meridian/internal/compliance/metrics"
	complianceservice "meridian/internal/compliance/service"
	"meridian/internal/compliance/workers/reconcile"
	disclosurehandler "meridian/internal/disclosure/handler"
	disclosureservice "meridian/internal/disclosure/service"
	disclosurestore "meridian/internal/disclosure/store"
	"meridian/internal/eligibility"
	eligibilityhandler "meridian/internal/eligibility/handler"
	eligibilitymetrics "meridian/internal/eligibility/metrics"
	investorhandler "meridian/internal/investor/handler"
	investorservice "meridian/internal/investor/service"
	investorstore "meridian/internal/investor/store"
	"meridian/internal/jurisdiction"
	jurisdictionhandler "meridian/internal/jurisdiction/handler"
	"meridian/internal/platform/config"
	"meridian/internal/platform/database"
	"meridian/internal/platform/health"
	"meridian/internal/platform/kafka/producer"
	"meridian/internal/platform/redis"
	"meridian/internal/verification"
	"meridian/internal/verification/cache"
	verificationmetrics "meridian/internal/verification/metrics"
	"meridian/internal/verification/provider"
	"meridian/internal/verification/tracer"
	audit "meridian/pkg/platform/audit"
	auditmetrics "meridian/pkg/platform/audit/metrics"
	"meridian/pkg/platform/audit/outbox"
	outboxmetrics "meridian/pkg/platform/audit/outbox/metrics"
	outboxmemory "meridian/pkg/platform/audit/outbox/store/memory"
	outboxpg "meridian/pkg/platform/audit/outbox/store/postgres"
	"meridian/pkg/platform/audit/outbox/worker"
	"meridian/pkg/platform/audit/publisher"
	auditmemory "meridian/pkg/platform/audit/store/memory"
	auditpostgres "meridian/pkg/platform/audit/store/postgres"
	"meridian/pkg/platform/circuit"
	"meridian/pkg/platform/middleware/admin"
	"meridian/pkg/platform/middleware/request"
)

const (
	maxRequestBody    = 1 << 20
	poolStatsInterval = 15 * time.Second
)

// stores groups the persistence backends chosen at startup.
type stores struct {
	investors   investorstore.Store
	investorTx  investorstore.Tx
	investments investorstore.InvestmentCounter
	deals       disclosurestore.Store
	audit       audit.Store
	outbox      outbox.Store
}

// application owns everything with a lifecycle beyond one request.
type application struct {
	router     http.Handler
	log        *slog.Logger
	pool       *database.Pool
	redis      *redis.Client
	producer   *producer.Producer
	publisher  *publisher.Publisher
	outbox     *worker.Worker
	reconciler *reconcile.Worker

	cancel context.CancelFunc
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*application, error) {
	app := &application{log: log}

	registry, err := jurisdiction.Load(cfg.JurisdictionsFile)
	if err != nil {
		return nil, fmt.Errorf("load jurisdictions: %w", err)
	}
	log.Info("jurisdiction registry loaded", "jurisdictions", registry.Len(), "overrides", cfg.JurisdictionsFile != "")

	app.pool, err = database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, err
	}
	if app.pool != nil {
		if err := database.Migrate(ctx, app.pool.DB()); err != nil {
			return nil, err
		}
	}

	if cfg.Kafka.Brokers != "" {
		app.producer, err = producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			return nil, err
		}
	}

	st := app.buildStores()

	app.publisher = publisher.NewPublisher(st.audit,
		publisher.WithPublisherLogger(log),
		publisher.WithMetrics(auditmetrics.New()),
	)
	if st.outbox != nil {
		var prod worker.Producer = producer.Noop{}
		if app.producer != nil {
			prod = app.producer
		}
		app.outbox = worker.New(st.outbox, prod,
			worker.WithTopic(cfg.Kafka.AuditTopic),
			worker.WithMetrics(outboxmetrics.New()),
			worker.WithLogger(log),
		)
	}

	app.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	resolver := app.buildResolver(cfg.Verification)

	compliance := complianceservice.New(st.investors, st.investorTx, resolver, app.publisher,
		complianceservice.WithLogger(log),
		complianceservice.WithMetrics(compliancemetrics.New()),
	)
	if cfg.Verification.Configured() && cfg.Verification.ReconcileEnabled {
		app.reconciler, err = reconcile.New(compliance,
			reconcile.WithSchedule(cfg.Verification.ReconcileSchedule),
			reconcile.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
	}

	investors := investorservice.New(st.investors, st.investorTx, st.investments, app.publisher,
		investorservice.WithLogger(log),
	)
	deals := disclosureservice.New(st.deals, app.publisher, disclosureservice.WithLogger(log))
	evaluations := eligibility.NewService(eligibility.NewEvaluator(registry), st.investors, st.deals, app.publisher,
		eligibility.WithLogger(log),
		eligibility.WithMetrics(eligibilitymetrics.New()),
	)

	healthHandler := health.New(cfg.Environment)
	app.registerChecks(healthHandler)

	handlers := routeHandlers{
		health:       healthHandler,
		eligibility:  eligibilityhandler.New(evaluations, log),
		jurisdiction: jurisdictionhandler.New(registry, log),
		disclosure:   disclosurehandler.New(deals, log),
		compliance:   compliancehandler.New(compliance, provider.NewWebhookVerifier(cfg.Verification.WebhookSecret), log),
		investor:     investorhandler.New(investors, log),
	}
	app.router = newRouter(handlers, cfg.AdminAPIToken, log)
	return app, nil
}

// buildStores picks Postgres when a database is configured and in-memory
// stores otherwise. Audit events go through the outbox whenever there is a
// broker to publish them to, or a database to hold them.
func (a *application) buildStores() stores {
	if a.pool != nil {
		db := a.pool.DB()
		return stores{
			investors:   investorstore.NewPostgres(db),
			investorTx:  newInvestorPostgresTx(db),
			investments: investorstore.NewPostgresInvestments(db),
			deals:       disclosurestore.NewPostgres(db),
			audit:       auditpostgres.New(db, auditpostgres.WithOutbox()),
			outbox:      outboxpg.New(db),
		}
	}

	a.log.Warn("DATABASE_URL not set; using in-memory stores")
	investors := investorstore.NewInMemory()
	st := stores{
		investors:   investors,
		investorTx:  investorstore.NewShardedTx(investors),
		investments: investorstore.NewInMemoryInvestments(),
		deals:       disclosurestore.NewInMemory(),
		audit:       auditmemory.NewInMemoryStore(),
	}
	if a.producer != nil {
		ob := outboxmemory.New()
		st.audit = outbox.NewAuditStore(ob)
		st.outbox = ob
	}
	return st
}

// buildResolver leaves the provider client nil when credentials are missing,
// which makes every verification call resolve to an error result.
func (a *application) buildResolver(cfg config.Verification) *verification.Resolver {
	var client provider.Client
	if cfg.Configured() {
		client = provider.NewHTTPClient(cfg.BaseURL, cfg.AppToken, cfg.SecretKey, cfg.Timeout)
	} else {
		a.log.Warn("verification provider not configured; sync and reconcile are disabled")
	}

	var applicants verification.ApplicantCache = cache.NewInMemory(cfg.ApplicantTTL)
	if a.redis != nil {
		applicants = cache.NewRedis(a.redis.Client, cfg.ApplicantTTL)
	}

	return verification.New(client,
		verification.WithTimeout(cfg.Timeout),
		verification.WithBreaker(circuit.New("verification-provider")),
		verification.WithApplicantCache(applicants),
		verification.WithTracer(tracer.NewOTel()),
		verification.WithMetrics(verificationmetrics.New()),
		verification.WithLogger(a.log),
	)
}

func (a *application) registerChecks(h *health.Handler) {
	if a.pool != nil {
		h.RegisterCheck("database", a.pool.Health)
	}
	if a.redis != nil {
		h.RegisterCheck("redis", a.redis.Health)
	}
	if a.producer != nil {
		h.RegisterCheck("kafka", a.producer.Health)
	}
}

// start launches background workers.
func (a *application) start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	if a.outbox != nil {
		a.outbox.Start()
		go a.reportOutboxDepth(ctx)
	}
	if a.reconciler != nil {
		a.reconciler.Start()
	}
	if a.redis != nil {
		go a.redis.RunPoolStats(ctx, poolStatsInterval, a.log)
	}
}

func (a *application) reportOutboxDepth(ctx context.Context) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.outbox.UpdateMetrics(ctx); err != nil {
				a.log.Warn("failed to read outbox depth", "error", err)
			}
		}
	}
}

// stop halts workers before the stores they depend on.
func (a *application) stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.reconciler != nil {
		if err := a.reconciler.Stop(ctx); err != nil {
			a.log.Error("reconciler stop failed", "error", err)
		}
	}
	a.publisher.Close()
	if a.outbox != nil {
		if err := a.outbox.Stop(ctx); err != nil {
			a.log.Error("outbox worker stop failed", "error", err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(ctx); err != nil {
			a.log.Error("kafka producer close failed", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("redis close failed", "error", err)
		}
	}
	if err := a.pool.Close(); err != nil {
		a.log.Error("database close failed", "error", err)
	}
}

type routeHandlers struct {
	health       *health.Handler
	eligibility  *eligibilityhandler.Handler
	jurisdiction *jurisdictionhandler.Handler
	disclosure   *disclosurehandler.Handler
	compliance   *compliancehandler.Handler
	investor     *investorhandler.Handler
}

func newRouter(h routeHandlers, adminToken string, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))
	r.Use(request.Latency(request.NewMetrics(), routePattern))
	r.Use(request.BodyLimit(maxRequestBody))
	r.Use(request.ContentTypeJSON)

	h.health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	h.eligibility.Register(r)
	h.jurisdiction.Register(r)
	h.disclosure.RegisterPublic(r)
	h.compliance.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(adminToken, log))
		h.investor.Register(r)
		h.compliance.RegisterAdmin(r)
		h.disclosure.RegisterAdmin(r)
	})
	return r
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
