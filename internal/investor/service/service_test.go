package service

//go:generate mockgen -source=../store/store.go -destination=../store/mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"meridian/internal/investor/models"
	"meridian/internal/investor/store"
	"meridian/internal/investor/store/mocks"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	"meridian/pkg/platform/audit/publisher"
	auditmemory "meridian/pkg/platform/audit/store/memory"
	"meridian/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	store       *store.InMemoryStore
	investments *mocks.MockInvestmentCounter
	auditStore  *auditmemory.InMemoryStore
	service     *Service
	now         time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.investments = mocks.NewMockInvestmentCounter(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s.service = New(
		s.store,
		store.NewShardedTx(s.store),
		s.investments,
		publisher.NewPublisher(s.auditStore),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) register(country, investorType string) *models.Profile {
	req := &models.RegisterRequest{CountryCode: country, InvestorType: investorType}
	req.Normalize()
	s.Require().NoError(req.Validate())
	p, err := s.service.Register(context.Background(), req, "admin-1")
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) auditActions(investorID domain.InvestorID) []string {
	events, err := s.auditStore.ListByInvestor(context.Background(), investorID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func (s *ServiceSuite) TestRegister() {
	s.Run("creates pending profile with defaults", func() {
		p := s.register(" fr ", "")

		s.Equal("FR", p.CountryCode)
		s.Equal(domain.InvestorRetail, p.InvestorType)
		s.Equal(domain.StatusPendingReview, p.ComplianceStatus)
		s.Equal(models.SourceInitial, p.StatusSource)
		s.Equal(s.now, p.CreatedAt)
		s.Equal([]string{models.AuditActionInvestorRegistered}, s.auditActions(p.ID))
	})

	s.Run("risk score follows screening flags", func() {
		req := &models.RegisterRequest{CountryCode: "DE", IsPEP: true, IsSanctioned: true}
		req.Normalize()
		s.Require().NoError(req.Validate())
		p, err := s.service.Register(context.Background(), req, "admin-1")
		s.Require().NoError(err)
		s.Equal(models.RiskScoreSanctioned, p.RiskScore)
	})
}

func (s *ServiceSuite) TestGet() {
	_, err := s.service.Get(context.Background(), domain.NewInvestorID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestReclassify() {
	s.Run("changes type and records history", func() {
		p := s.register("FR", "retail")

		updated, err := s.service.Reclassify(context.Background(), p.ID, "Professional", "reviewer-1", "MiFID opt-up")
		s.Require().NoError(err)
		s.Equal(domain.InvestorProfessional, updated.InvestorType)
		s.Equal(int64(2), updated.Version)

		history, err := s.service.History(context.Background(), p.ID)
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Equal(models.FieldInvestorType, history[0].Field)
		s.Equal("retail", history[0].Previous)
		s.Equal("professional", history[0].New)
		s.Equal("reviewer-1", history[0].ChangedBy)
		s.Equal("MiFID opt-up", history[0].Notes)
		s.Contains(s.auditActions(p.ID), models.AuditActionInvestorReclassified)
	})

	s.Run("same type is a no-op", func() {
		p := s.register("FR", "retail")
		updated, err := s.service.Reclassify(context.Background(), p.ID, "retail", "reviewer-1", "")
		s.Require().NoError(err)
		s.Equal(int64(1), updated.Version)

		history, err := s.service.History(context.Background(), p.ID)
		s.Require().NoError(err)
		s.Empty(history)
	})

	s.Run("invalid type rejected", func() {
		p := s.register("FR", "retail")
		_, err := s.service.Reclassify(context.Background(), p.ID, "whale", "reviewer-1", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("reviewer required", func() {
		p := s.register("FR", "retail")
		_, err := s.service.Reclassify(context.Background(), p.ID, "professional", "", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing investor", func() {
		_, err := s.service.Reclassify(context.Background(), domain.NewInvestorID(), "professional", "reviewer-1", "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdateScreening() {
	p := s.register("FR", "retail")

	updated, err := s.service.UpdateScreening(context.Background(), p.ID, true, false, "admin-1")
	s.Require().NoError(err)
	s.True(updated.IsPEP)
	s.Equal(models.RiskScorePEP, updated.RiskScore)

	updated, err = s.service.UpdateScreening(context.Background(), p.ID, false, false, "admin-1")
	s.Require().NoError(err)
	s.Zero(updated.RiskScore)
}

func (s *ServiceSuite) TestLinkApplicant() {
	s.Run("links and finds by applicant", func() {
		p := s.register("FR", "retail")
		updated, err := s.service.LinkApplicant(context.Background(), p.ID, "app-123", "admin-1")
		s.Require().NoError(err)
		s.Equal("app-123", updated.ApplicantID())

		found, err := s.store.FindByApplicantID(context.Background(), "app-123")
		s.Require().NoError(err)
		s.Equal(p.ID, found.ID)
	})

	s.Run("applicant owned by another investor conflicts", func() {
		a := s.register("FR", "retail")
		b := s.register("FR", "retail")
		_, err := s.service.LinkApplicant(context.Background(), a.ID, "app-dup", "admin-1")
		s.Require().NoError(err)

		_, err = s.service.LinkApplicant(context.Background(), b.ID, "app-dup", "admin-1")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestDelete() {
	s.Run("investor without investments is deleted", func() {
		p := s.register("FR", "retail")
		s.investments.EXPECT().CountByInvestor(gomock.Any(), p.ID).Return(int64(0), nil)

		s.Require().NoError(s.service.Delete(context.Background(), p.ID, "admin-1"))
		_, err := s.service.Get(context.Background(), p.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(s.auditActions(p.ID), models.AuditActionInvestorDeleted)
	})

	s.Run("investor with investments conflicts", func() {
		p := s.register("FR", "retail")
		s.investments.EXPECT().CountByInvestor(gomock.Any(), p.ID).Return(int64(2), nil)

		err := s.service.Delete(context.Background(), p.ID, "admin-1")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		_, err = s.service.Get(context.Background(), p.ID)
		s.NoError(err)
	})

	s.Run("count failure is internal", func() {
		p := s.register("FR", "retail")
		s.investments.EXPECT().CountByInvestor(gomock.Any(), p.ID).Return(int64(0), errors.New("db down"))

		err := s.service.Delete(context.Background(), p.ID, "admin-1")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("missing investor", func() {
		err := s.service.Delete(context.Background(), domain.NewInvestorID(), "admin-1")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestVersionConflictIsTranslated() {
	mockStore := mocks.NewMockStore(s.ctrl)
	mockTx := mocks.NewMockTx(s.ctrl)
	svc := New(mockStore, mockTx, s.investments, publisher.NewPublisher(auditmemory.NewInMemoryStore()))

	p, err := models.NewProfile(domain.NewInvestorID(), "FR", domain.InvestorRetail, false, false, nil, s.now)
	s.Require().NoError(err)

	mockTx.EXPECT().RunInTx(gomock.Any(), p.ID, gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.InvestorID, fn func(context.Context, store.Store) error) error {
			return fn(ctx, mockStore)
		})
	mockStore.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil)
	mockStore.EXPECT().UpdateIfVersion(gomock.Any(), gomock.Any(), int64(1)).Return(sentinel.ErrVersionConflict)

	_, err = svc.UpdateScreening(context.Background(), p.ID, true, false, "admin-1")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}
