package main

import (
	"context"
	"database/sql"
	"time"

	investorstore "meridian/internal/investor/store"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
)

const defaultInvestorTxTimeout = 5 * time.Second

// investorPostgresTx implements investorstore.Tx. Reads through the store
// passed to fn take row locks, which serialise writers per investor.
type investorPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newInvestorPostgresTx(db *sql.DB) *investorPostgresTx {
	return &investorPostgresTx{db: db, timeout: defaultInvestorTxTimeout}
}

func (t *investorPostgresTx) RunInTx(ctx context.Context, _ domain.InvestorID, fn func(ctx context.Context, store investorstore.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if err := fn(ctx, investorstore.NewPostgresTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
