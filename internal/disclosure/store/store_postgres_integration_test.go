//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"meridian/internal/disclosure"
	"meridian/internal/disclosure/models"
	"meridian/internal/disclosure/store"
	"meridian/pkg/domain"
	"meridian/pkg/platform/sentinel"
	"meridian/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "deal_compliance_profiles"))
}

func (s *PostgresStoreSuite) newDeal() *models.DealProfile {
	now := time.Now().UTC().Truncate(time.Microsecond)
	deal := &models.DealProfile{
		DealID:            domain.NewDealID(),
		IssuerCountry:     "LU",
		Compartment:       models.CompartmentProfessional,
		Instrument:        models.InstrumentDebt,
		MinimumInvestment: decimal.RequireFromString("125000.50"),
		RiskLevel:         7,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	deal.ApplyRequirements(disclosure.ResolveForDeal(deal))
	return deal
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	deal := s.newDeal()
	s.Require().NoError(s.store.Create(ctx, deal))

	found, err := s.store.FindByID(ctx, deal.DealID)
	s.Require().NoError(err)
	s.Equal(deal.IssuerCountry, found.IssuerCountry)
	s.Equal(models.InstrumentDebt, found.Instrument)
	s.True(deal.MinimumInvestment.Equal(found.MinimumInvestment))
	s.Equal(deal.Requirements(), found.Requirements())
	s.False(found.RegulatorApproved)
	s.Nil(found.RegulatorApprovedAt)

	_, err = s.store.FindByID(ctx, domain.NewDealID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCreateRejectsExistingDeal() {
	ctx := context.Background()
	deal := s.newDeal()
	s.Require().NoError(s.store.Create(ctx, deal))

	deal.RiskLevel = 3
	s.ErrorIs(s.store.Create(ctx, deal), sentinel.ErrConflict)

	found, err := s.store.FindByID(ctx, deal.DealID)
	s.Require().NoError(err)
	s.Equal(7, found.RiskLevel)
}

func (s *PostgresStoreSuite) TestUpdateRederivesOnApproval() {
	ctx := context.Background()
	deal := s.newDeal()
	s.Require().NoError(s.store.Create(ctx, deal))
	s.True(deal.RequiresProspectus)

	approvedAt := time.Now().UTC().Truncate(time.Microsecond)
	updated, err := s.store.Update(ctx, deal.DealID, func(d *models.DealProfile) error {
		d.SetRegulatorApproval(true, "officer-2", approvedAt)
		d.ApplyRequirements(disclosure.ResolveForDeal(d))
		return nil
	})
	s.Require().NoError(err)
	s.False(updated.RequiresProspectus)

	found, err := s.store.FindByID(ctx, deal.DealID)
	s.Require().NoError(err)
	s.True(found.RegulatorApproved)
	s.Equal("officer-2", found.RegulatorApprovedBy)
	s.Require().NotNil(found.RegulatorApprovedAt)
	s.True(approvedAt.Equal(*found.RegulatorApprovedAt))
	s.False(found.RequiresProspectus)
	s.True(found.RequiresPPM)
}

func (s *PostgresStoreSuite) TestUpdateMissing() {
	_, err := s.store.Update(context.Background(), domain.NewDealID(), func(*models.DealProfile) error { return nil })
	s.ErrorIs(err, sentinel.ErrNotFound)
}
