package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meridian/internal/platform/kafka/producer"
	id "meridian/pkg/domain"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/audit/outbox"
	"meridian/pkg/platform/audit/outbox/store/memory"

	"github.com/stretchr/testify/suite"
)

type recordingProducer struct {
	mu       sync.Mutex
	messages []*producer.Message
	fail     error
}

func (p *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

type WorkerSuite struct {
	suite.Suite
	store    *memory.Store
	producer *recordingProducer
	worker   *Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.store = memory.New()
	s.producer = &recordingProducer{}
	s.worker = New(s.store, s.producer, WithTopic("test.audit"), WithBatchSize(2))
}

func (s *WorkerSuite) appendEvents(n int) {
	sink := outbox.NewAuditStore(s.store)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Require().NoError(sink.Append(context.Background(), audit.Event{
			Category:   audit.CategoryCompliance,
			InvestorID: id.NewInvestorID(),
			Action:     "compliance_status_changed",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}))
	}
}

func (s *WorkerSuite) TestProcessBatch() {
	s.Run("publishes oldest entries up to batch size", func() {
		s.appendEvents(3)

		s.Equal(2, s.worker.ProcessBatch(context.Background()))
		s.Equal(1, s.worker.ProcessBatch(context.Background()))
		s.Equal(0, s.worker.ProcessBatch(context.Background()))

		s.Require().Equal(3, s.producer.count())
		msg := s.producer.messages[0]
		s.Equal("test.audit", msg.Topic)
		s.Equal("investor", msg.Headers["aggregate_type"])
		s.Equal("compliance_status_changed", msg.Headers["event_type"])

		pending, err := s.store.CountPending(context.Background())
		s.Require().NoError(err)
		s.Zero(pending)
	})
}

func (s *WorkerSuite) TestProcessBatchKeepsFailedEntriesPending() {
	s.appendEvents(1)
	s.producer.fail = errors.New("broker down")

	s.Equal(0, s.worker.ProcessBatch(context.Background()))

	pending, err := s.store.CountPending(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(1), pending)

	s.producer.fail = nil
	s.Equal(1, s.worker.ProcessBatch(context.Background()))
}

func (s *WorkerSuite) TestCleanupRemovesOldProcessedEntries() {
	s.appendEvents(2)
	s.worker.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	s.Equal(2, s.worker.ProcessBatch(context.Background()))

	s.worker.now = func() time.Time { return time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC) }
	s.worker.Cleanup(context.Background())

	entries, err := s.store.DeleteProcessedBefore(context.Background(), time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Zero(entries)
}

func (s *WorkerSuite) TestStartStopDrains() {
	s.worker = New(s.store, s.producer, WithPollInterval(time.Hour))
	s.appendEvents(3)
	s.worker.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.worker.Stop(ctx))
	s.Equal(3, s.producer.count())
}
