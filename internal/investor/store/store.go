package store

import (
	"context"
	"time"

	"meridian/internal/investor/models"
	"meridian/pkg/domain"
)

// Error Contract:
// - ErrNotFound when the investor does not exist
// - ErrConflict when Create collides with an existing id or applicant id
// - ErrVersionConflict when UpdateIfVersion loses a compare-and-swap
// - wrapped errors for infrastructure failures

// Store persists investor profiles and their change history.
type Store interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, investorID domain.InvestorID) (*models.Profile, error)
	FindByApplicantID(ctx context.Context, applicantID string) (*models.Profile, error)
	// UpdateIfVersion writes profile only if the stored version equals
	// expected, then sets profile.Version to expected+1.
	UpdateIfVersion(ctx context.Context, profile *models.Profile, expected int64) error
	AppendHistory(ctx context.Context, entries ...models.HistoryEntry) error
	ListHistory(ctx context.Context, investorID domain.InvestorID) ([]models.HistoryEntry, error)
	// ListReconcilable returns up to limit pending_review profiles that have
	// a linked applicant and no reviewer override, ordered by (UpdatedAt, ID)
	// and strictly after the cursor. The zero cursor starts from the oldest.
	ListReconcilable(ctx context.Context, after ReconcileCursor, limit int) ([]*models.Profile, error)
	Delete(ctx context.Context, investorID domain.InvestorID) error
}

// ReconcileCursor is the keyset position of the last profile a reconcile
// page returned.
type ReconcileCursor struct {
	UpdatedAt time.Time
	ID        domain.InvestorID
}

// CursorAfter positions a cursor on profile.
func CursorAfter(profile *models.Profile) ReconcileCursor {
	return ReconcileCursor{UpdatedAt: profile.UpdatedAt, ID: profile.ID}
}

// Tx runs fn with exclusive access to one investor's profile. Reads and
// writes made through the store passed to fn are atomic with respect to
// other RunInTx calls for the same investor.
type Tx interface {
	RunInTx(ctx context.Context, investorID domain.InvestorID, fn func(ctx context.Context, store Store) error) error
}

// InvestmentCounter reports how many investments reference an investor.
// Investments are owned by the order book; this service only reads them.
type InvestmentCounter interface {
	CountByInvestor(ctx context.Context, investorID domain.InvestorID) (int64, error)
}
