// Package worker relays audit outbox entries to Kafka. Entries are published
// oldest first and marked only after the broker acks, so delivery is
// at-least-once keyed by entry id.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"meridian/internal/platform/kafka/producer"
	"meridian/pkg/platform/audit/outbox"
	"meridian/pkg/platform/audit/outbox/metrics"
)

const (
	defaultTopic     = "meridian.audit.events"
	defaultBatchSize = 100
	defaultPoll      = 100 * time.Millisecond
	defaultRetention = 7 * 24 * time.Hour
	cleanupEvery     = time.Hour
	drainTimeout     = 10 * time.Second
)

// Producer is satisfied by *producer.Producer and producer.Noop.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

type Worker struct {
	store    outbox.Store
	producer Producer

	topic     string
	batchSize int
	poll      time.Duration
	retention time.Duration

	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

type Option func(*Worker)

func WithTopic(topic string) Option {
	return func(w *Worker) {
		if topic != "" {
			w.topic = topic
		}
	}
}

// WithBatchSize caps entries fetched per poll.
func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.poll = d
		}
	}
}

// WithRetention sets how long relayed entries are kept. Zero keeps them
// forever.
func WithRetention(d time.Duration) Option {
	return func(w *Worker) { w.retention = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) { w.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

func New(store outbox.Store, prod Producer, opts ...Option) *Worker {
	if store == nil || prod == nil {
		panic("outbox worker requires a store and a producer")
	}
	w := &Worker{
		store:     store,
		producer:  prod,
		topic:     defaultTopic,
		batchSize: defaultBatchSize,
		poll:      defaultPoll,
		retention: defaultRetention,
		logger:    slog.Default(),
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the relay loop until Stop is called.
func (w *Worker) Start() {
	w.done.Add(1)
	go func() {
		defer w.done.Done()
		w.loop()
	}()
}

func (w *Worker) loop() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poll := time.NewTicker(w.poll)
	defer poll.Stop()
	cleanup := time.NewTicker(cleanupEvery)
	defer cleanup.Stop()

	for {
		select {
		case <-w.stop:
			cancel()
			w.drain()
			return
		case <-poll.C:
			started := time.Now()
			n := w.ProcessBatch(ctx)
			w.metrics.Polled(time.Since(started), n)
		case <-cleanup.C:
			w.Cleanup(ctx)
		}
	}
}

// ProcessBatch relays one batch and returns how many entries were published
// and marked. Anything that fails stays pending for the next poll.
func (w *Worker) ProcessBatch(ctx context.Context) int {
	entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("outbox fetch failed", "error", err)
		w.metrics.Failed()
		return 0
	}

	relayed := 0
	for _, entry := range entries {
		if w.relay(ctx, entry) {
			relayed++
		}
	}
	return relayed
}

func (w *Worker) relay(ctx context.Context, entry *outbox.Entry) bool {
	log := w.logger.With("outbox_id", entry.ID, "event_type", entry.EventType)

	started := time.Now()
	err := w.producer.Produce(ctx, &producer.Message{
		Topic: w.topic,
		Key:   []byte(entry.ID.String()),
		Value: entry.Payload,
		Headers: map[string]string{
			"aggregate_type": entry.AggregateType,
			"aggregate_id":   entry.AggregateID,
			"event_type":     entry.EventType,
		},
	})
	if err != nil {
		log.Error("outbox publish failed", "error", err)
		w.metrics.Failed()
		return false
	}
	took := time.Since(started)

	// Unmarked entries are re-sent; consumers dedupe on the key.
	if err := w.store.MarkProcessed(ctx, entry.ID, w.now()); err != nil {
		log.Error("outbox mark failed", "error", err)
		return false
	}
	w.metrics.Relayed(took)
	return true
}

// drain flushes what is left on shutdown, giving up on the first batch that
// makes no progress.
func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	total := 0
	for ctx.Err() == nil {
		n := w.ProcessBatch(ctx)
		if n == 0 {
			break
		}
		total += n
	}
	w.logger.Info("outbox worker drained", "relayed", total)
}

// Cleanup deletes relayed entries older than the retention window.
func (w *Worker) Cleanup(ctx context.Context) {
	if w.retention <= 0 {
		return
	}
	n, err := w.store.DeleteProcessedBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		w.logger.Error("outbox cleanup failed", "error", err)
		return
	}
	w.metrics.Purged(n)
}

// Stop signals the loop and waits for the drain to finish or ctx to expire.
func (w *Worker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })

	finished := make(chan struct{})
	go func() {
		w.done.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateMetrics refreshes the pending depth gauge.
func (w *Worker) UpdateMetrics(ctx context.Context) error {
	if w.metrics == nil {
		return nil
	}
	n, err := w.store.CountPending(ctx)
	if err != nil {
		return err
	}
	w.metrics.Pending(n)
	return nil
}
