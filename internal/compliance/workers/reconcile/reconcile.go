// Package reconcile periodically converges pending investors with the
// verification provider, covering callbacks that never arrived.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"meridian/internal/compliance/models"
)

const (
	defaultSchedule = "@every 15m"
	defaultTimeout  = 5 * time.Minute
)

// Reconciler is the sweep the worker schedules. Implemented by the
// compliance service.
type Reconciler interface {
	ReconcilePending(ctx context.Context) (models.ReconcileResult, error)
}

// Worker runs ReconcilePending on a cron schedule. Sweeps never overlap: a
// tick that fires while the previous sweep is still running is skipped.
type Worker struct {
	reconciler Reconciler
	schedule   string
	timeout    time.Duration
	cron       *cron.Cron
	running    sync.Mutex
	logger     *slog.Logger
}

// Option configures Worker.
type Option func(*Worker)

// WithSchedule overrides the cron spec. Descriptors such as "@every 5m" and
// five or six field expressions are accepted.
func WithSchedule(spec string) Option {
	return func(w *Worker) {
		if spec != "" {
			w.schedule = spec
		}
	}
}

// WithTimeout bounds a single sweep.
func WithTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New constructs a Worker. The schedule is parsed here so a bad spec fails
// at startup rather than silently never firing.
func New(reconciler Reconciler, opts ...Option) (*Worker, error) {
	if reconciler == nil {
		return nil, fmt.Errorf("reconciler is required")
	}
	w := &Worker{
		reconciler: reconciler,
		schedule:   defaultSchedule,
		timeout:    defaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.cron = cron.New(cron.WithParser(cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	if _, err := w.cron.AddFunc(w.schedule, w.tick); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", w.schedule, err)
	}
	return w, nil
}

// Start begins scheduling sweeps in the background.
func (w *Worker) Start() {
	w.cron.Start()
	w.logger.Info("verification reconciler started", "schedule", w.schedule)
}

// Stop halts scheduling and waits for a running sweep, or for ctx.
func (w *Worker) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single sweep unless one is already in progress.
func (w *Worker) RunOnce(ctx context.Context) (models.ReconcileResult, bool, error) {
	if !w.running.TryLock() {
		return models.ReconcileResult{}, false, nil
	}
	defer w.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	res, err := w.reconciler.ReconcilePending(ctx)
	return res, true, err
}

func (w *Worker) tick() {
	ctx := context.Background()
	res, ran, err := w.RunOnce(ctx)
	if !ran {
		w.logger.WarnContext(ctx, "verification reconcile skipped: previous sweep still running")
		return
	}
	if err != nil {
		w.logger.ErrorContext(ctx, "verification reconcile failed",
			"error", err,
			"checked", res.Checked,
			"applied", res.Applied,
			"failed", res.Failed,
		)
		return
	}
	w.logger.InfoContext(ctx, "verification reconcile completed",
		"checked", res.Checked,
		"applied", res.Applied,
		"ignored", res.Ignored,
		"failed", res.Failed,
	)
}
