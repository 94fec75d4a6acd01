package eligibility

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"meridian/internal/eligibility/mocks"
	"meridian/internal/jurisdiction"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/audit/publisher"
	auditmemory "meridian/pkg/platform/audit/store/memory"
	"meridian/pkg/platform/sentinel"
)

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, audit.Event) error { return errors.New("audit store down") }

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	investors  *mocks.MockInvestorReader
	deals      *mocks.MockDealReader
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.investors = mocks.NewMockInvestorReader(s.ctrl)
	s.deals = mocks.NewMockDealReader(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service = NewService(
		NewEvaluator(jurisdiction.Default()),
		s.investors,
		s.deals,
		publisher.NewPublisher(s.auditStore),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ServiceSuite) TestEvaluateByID() {
	ctx := context.Background()

	s.Run("evaluates loaded profiles and audits", func() {
		investor := newInvestor(s.T(), "FR", domain.InvestorRetail)
		deal := approvedRetailDeal()
		s.investors.EXPECT().FindByID(gomock.Any(), investor.ID).Return(investor, nil)
		s.deals.EXPECT().FindByID(gomock.Any(), deal.DealID).Return(deal, nil)
		amount := decimal.RequireFromString("2500")

		d, err := s.service.EvaluateByID(ctx, investor.ID, deal.DealID, &amount)
		s.Require().NoError(err)
		s.True(d.Allowed)
		s.Equal(ReasonEligible, d.PrimaryReason)

		events, err := s.auditStore.ListByInvestor(ctx, investor.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.CategoryEligibility, events[0].Category)
		s.Equal(AuditActionEvaluated, events[0].Action)
		s.Equal("allow", events[0].Decision)
		s.Equal(deal.DealID.String(), events[0].Subject)
		s.Equal("2500", events[0].Details["amount"])
	})

	s.Run("denial is a decision not an error", func() {
		investor := newInvestor(s.T(), "US", domain.InvestorProfessional)
		deal := approvedRetailDeal()
		s.investors.EXPECT().FindByID(gomock.Any(), investor.ID).Return(investor, nil)
		s.deals.EXPECT().FindByID(gomock.Any(), deal.DealID).Return(deal, nil)

		d, err := s.service.EvaluateByID(ctx, investor.ID, deal.DealID, nil)
		s.Require().NoError(err)
		s.False(d.Allowed)
		s.Equal(ReasonInvestorTypeNotPermitted, d.PrimaryReason)
	})

	s.Run("missing investor is not found", func() {
		investorID := domain.NewInvestorID()
		deal := approvedRetailDeal()
		s.investors.EXPECT().FindByID(gomock.Any(), investorID).Return(nil, sentinel.ErrNotFound)
		s.deals.EXPECT().FindByID(gomock.Any(), deal.DealID).Return(deal, nil).AnyTimes()

		_, err := s.service.EvaluateByID(ctx, investorID, deal.DealID, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "investor not found")
	})

	s.Run("missing deal is not found", func() {
		investor := newInvestor(s.T(), "FR", domain.InvestorRetail)
		dealID := domain.NewDealID()
		s.investors.EXPECT().FindByID(gomock.Any(), investor.ID).Return(investor, nil).AnyTimes()
		s.deals.EXPECT().FindByID(gomock.Any(), dealID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.EvaluateByID(ctx, investor.ID, dealID, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "deal not found")
	})

	s.Run("store failure is internal", func() {
		investorID := domain.NewInvestorID()
		dealID := domain.NewDealID()
		s.investors.EXPECT().FindByID(gomock.Any(), investorID).Return(nil, errors.New("connection reset"))
		s.deals.EXPECT().FindByID(gomock.Any(), dealID).Return(nil, sentinel.ErrNotFound).AnyTimes()

		_, err := s.service.EvaluateByID(ctx, investorID, dealID, nil)
		s.Require().Error(err)
		var domainErr *dErrors.Error
		s.Require().ErrorAs(err, &domainErr)
		s.Contains([]dErrors.Code{dErrors.CodeInternal, dErrors.CodeNotFound}, domainErr.Code)
	})
}

func (s *ServiceSuite) TestAuditFailureDoesNotChangeDecision() {
	svc := NewService(
		NewEvaluator(jurisdiction.Default()),
		s.investors,
		s.deals,
		failingEmitter{},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	investor := newInvestor(s.T(), "FR", domain.InvestorRetail)
	deal := approvedRetailDeal()
	s.investors.EXPECT().FindByID(gomock.Any(), investor.ID).Return(investor, nil)
	s.deals.EXPECT().FindByID(gomock.Any(), deal.DealID).Return(deal, nil)

	d, err := svc.EvaluateByID(context.Background(), investor.ID, deal.DealID, nil)
	s.Require().NoError(err)
	s.True(d.Allowed)
}

func (s *ServiceSuite) TestNewServicePanicsOnMissingPorts() {
	e := NewEvaluator(jurisdiction.Default())
	pub := publisher.NewPublisher(auditmemory.NewInMemoryStore())

	s.Panics(func() { NewService(nil, s.investors, s.deals, pub) })
	s.Panics(func() { NewService(e, nil, s.deals, pub) })
	s.Panics(func() { NewService(e, s.investors, nil, pub) })
	s.Panics(func() { NewService(e, s.investors, s.deals, nil) })
	s.Panics(func() { NewEvaluator(nil) })
}
