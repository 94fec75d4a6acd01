package store

import (
	"context"
	"time"

	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	platformsync "meridian/pkg/platform/sync"
)

// defaultTxTimeout bounds how long a transaction may hold an investor lock.
const defaultTxTimeout = 5 * time.Second

// ShardedTx serialises in-memory transactions per investor with a sharded
// mutex. Investors that hash to different shards never contend.
type ShardedTx struct {
	mu      *platformsync.ShardedMutex
	store   Store
	timeout time.Duration
}

// NewShardedTx wraps store with per-investor locking.
func NewShardedTx(store Store) *ShardedTx {
	return &ShardedTx{mu: platformsync.NewShardedMutex(), store: store, timeout: defaultTxTimeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, investorID domain.InvestorID, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	key := investorID.String()
	t.mu.Lock(key)
	defer t.mu.Unlock(key)

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx, t.store)
}
