package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian/internal/disclosure/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/sentinel"
)

func newDeal() *models.DealProfile {
	now := time.Now()
	return &models.DealProfile{
		DealID:            domain.NewDealID(),
		IssuerCountry:     "FR",
		Compartment:       models.CompartmentRetail,
		Instrument:        models.InstrumentEquity,
		MinimumInvestment: decimal.RequireFromString("500"),
		RiskLevel:         4,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestInMemoryStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	deal := newDeal()
	require.NoError(t, s.Create(ctx, deal))
	assert.ErrorIs(t, s.Create(ctx, deal), sentinel.ErrConflict)

	found, err := s.FindByID(ctx, deal.DealID)
	require.NoError(t, err)
	assert.Equal(t, "FR", found.IssuerCountry)
	assert.True(t, found.MinimumInvestment.Equal(decimal.NewFromInt(500)))

	found.IssuerCountry = "DE"
	again, err := s.FindByID(ctx, deal.DealID)
	require.NoError(t, err)
	assert.Equal(t, "FR", again.IssuerCountry)

	_, err = s.FindByID(ctx, domain.NewDealID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	deal := newDeal()
	require.NoError(t, s.Create(ctx, deal))

	t.Run("applies mutation", func(t *testing.T) {
		updated, err := s.Update(ctx, deal.DealID, func(d *models.DealProfile) error {
			d.SetRegulatorApproval(true, "officer-1", time.Now())
			return nil
		})
		require.NoError(t, err)
		assert.True(t, updated.RegulatorApproved)

		found, err := s.FindByID(ctx, deal.DealID)
		require.NoError(t, err)
		assert.Equal(t, "officer-1", found.RegulatorApprovedBy)
		require.NotNil(t, found.RegulatorApprovedAt)
	})

	t.Run("mutation error leaves profile untouched", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := s.Update(ctx, deal.DealID, func(d *models.DealProfile) error {
			d.RiskLevel = 9
			return boom
		})
		assert.ErrorIs(t, err, boom)

		found, err := s.FindByID(ctx, deal.DealID)
		require.NoError(t, err)
		assert.Equal(t, 4, found.RiskLevel)
	})

	t.Run("missing deal", func(t *testing.T) {
		_, err := s.Update(ctx, domain.NewDealID(), func(*models.DealProfile) error { return nil })
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
