//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"meridian/pkg/domain"
	audit "meridian/pkg/platform/audit"
	outboxpg "meridian/pkg/platform/audit/outbox/store/postgres"
	"meridian/pkg/platform/audit/store/postgres"
	"meridian/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events", "outbox"))
}

func event(investorID domain.InvestorID, action string, at time.Time) audit.Event {
	return audit.Event{
		Category:   audit.CategoryCompliance,
		Timestamp:  at,
		InvestorID: investorID,
		Action:     action,
		Decision:   "approved",
		ActorID:    "reviewer-1",
		Details:    map[string]string{"from": "pending_review", "to": "approved"},
	}
}

func (s *AuditStoreSuite) TestAppendAndListByInvestor() {
	ctx := context.Background()
	store := postgres.New(s.postgres.DB)
	investorID := domain.NewInvestorID()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(store.Append(ctx, event(investorID, "first", base)))
	s.Require().NoError(store.Append(ctx, event(investorID, "second", base.Add(time.Minute))))
	s.Require().NoError(store.Append(ctx, event(domain.NewInvestorID(), "other", base)))

	events, err := store.ListByInvestor(ctx, investorID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("second", events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.Equal("approved", events[0].Details["to"])

	recent, err := store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Len(recent, 3)

	pending, err := outboxpg.New(s.postgres.DB).CountPending(ctx)
	s.Require().NoError(err)
	s.Zero(pending)
}

func (s *AuditStoreSuite) TestAppendWithIDIsIdempotent() {
	ctx := context.Background()
	store := postgres.New(s.postgres.DB)
	investorID := domain.NewInvestorID()
	eventID := uuid.New()
	e := event(investorID, "replayed", time.Now().UTC())

	s.Require().NoError(store.AppendWithID(ctx, eventID, e))
	s.Require().NoError(store.AppendWithID(ctx, eventID, e))

	events, err := store.ListByInvestor(ctx, investorID)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *AuditStoreSuite) TestWithOutboxWritesBothTables() {
	ctx := context.Background()
	store := postgres.New(s.postgres.DB, postgres.WithOutbox())
	investorID := domain.NewInvestorID()

	s.Require().NoError(store.Append(ctx, event(investorID, "compliance_status_changed", time.Now().UTC())))

	events, err := store.ListByInvestor(ctx, investorID)
	s.Require().NoError(err)
	s.Len(events, 1)

	entries, err := outboxpg.New(s.postgres.DB).FetchUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("investor", entries[0].AggregateType)
	s.Equal(investorID.String(), entries[0].AggregateID)
	s.Equal("compliance_status_changed", entries[0].EventType)
}

func (s *AuditStoreSuite) TestSubjectOnlyEvent() {
	ctx := context.Background()
	store := postgres.New(s.postgres.DB, postgres.WithOutbox())
	dealID := domain.NewDealID().String()

	s.Require().NoError(store.Append(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: time.Now().UTC(),
		Subject:   dealID,
		Action:    "deal_profile_upserted",
	}))

	entries, err := outboxpg.New(s.postgres.DB).FetchUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("subject", entries[0].AggregateType)
	s.Equal(dealID, entries[0].AggregateID)
}
