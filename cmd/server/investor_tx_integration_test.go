//go:build integration

package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meridian/internal/investor/models"
	investorstore "meridian/internal/investor/store"
	"meridian/pkg/domain"
	"meridian/pkg/testutil/containers"
)

func TestInvestorPostgresTx(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	pg := containers.GetManager().GetPostgres(t)
	require.NoError(t, pg.TruncateTables(ctx, "investor_history", "investor_profiles"))

	st := investorstore.NewPostgres(pg.DB)
	p, err := models.NewProfile(domain.NewInvestorID(), "FR", domain.InvestorRetail, false, false, nil, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, st.Create(ctx, p))

	tx := newInvestorPostgresTx(pg.DB)

	t.Run("concurrent writers serialise", func(t *testing.T) {
		const writers = 10
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- tx.RunInTx(ctx, p.ID, func(ctx context.Context, s investorstore.Store) error {
					current, err := s.FindByID(ctx, p.ID)
					if err != nil {
						return err
					}
					current.Tags = append(current.Tags, "x")
					return s.UpdateIfVersion(ctx, current, current.Version)
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		final, err := st.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, final.Tags, writers)
	})

	t.Run("error rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.RunInTx(ctx, p.ID, func(ctx context.Context, s investorstore.Store) error {
			current, err := s.FindByID(ctx, p.ID)
			if err != nil {
				return err
			}
			current.Tags = nil
			if err := s.UpdateIfVersion(ctx, current, current.Version); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		final, err := st.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotEmpty(t, final.Tags)
	})
}
