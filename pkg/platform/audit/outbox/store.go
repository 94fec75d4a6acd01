package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines the outbox persistence operations.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append adds a new entry to the outbox.
	Append(ctx context.Context, entry *Entry) error

	// FetchUnprocessed returns up to limit entries that haven't been processed,
	// oldest first. Postgres implementations lock rows with SKIP LOCKED so
	// several workers can poll concurrently.
	FetchUnprocessed(ctx context.Context, limit int) ([]*Entry, error)

	// MarkProcessed marks an entry as successfully published.
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error

	// CountPending returns the number of unprocessed entries.
	CountPending(ctx context.Context) (int64, error)

	// DeleteProcessedBefore removes old processed entries and returns how many
	// were deleted.
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
