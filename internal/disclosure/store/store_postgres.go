package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meridian/internal/disclosure/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// PostgresStore persists deal compliance profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed deal profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const dealColumns = `
	deal_id, issuer_country, compartment_type, instrument_type, minimum_investment,
	risk_level, requires_prospectus, requires_key_info_document, requires_ppm,
	requires_regulator_approval, regulator_approved, regulator_approved_by,
	regulator_approved_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, deal *models.DealProfile) error {
	if deal == nil {
		return fmt.Errorf("deal profile is required")
	}
	query := `INSERT INTO deal_compliance_profiles (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (deal_id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, dealArgs(deal)...)
	if err != nil {
		return fmt.Errorf("insert deal profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert deal profile: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, dealID domain.DealID) (*models.DealProfile, error) {
	return findDeal(ctx, s.db, dealID, "")
}

func (s *PostgresStore) Update(ctx context.Context, dealID domain.DealID, fn func(*models.DealProfile) error) (*models.DealProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin deal update: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	deal, err := findDeal(ctx, tx, dealID, " FOR UPDATE")
	if err != nil {
		return nil, err
	}
	if err := fn(deal); err != nil {
		return nil, err
	}

	query := `
		UPDATE deal_compliance_profiles
		SET issuer_country = $2, compartment_type = $3, instrument_type = $4,
			minimum_investment = $5, risk_level = $6, requires_prospectus = $7,
			requires_key_info_document = $8, requires_ppm = $9,
			requires_regulator_approval = $10, regulator_approved = $11,
			regulator_approved_by = $12, regulator_approved_at = $13, created_at = $14,
			updated_at = $15
		WHERE deal_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, dealArgs(deal)...); err != nil {
		return nil, fmt.Errorf("update deal profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit deal update: %w", err)
	}
	committed = true
	return deal, nil
}

func findDeal(ctx context.Context, q rowQuerier, dealID domain.DealID, lock string) (*models.DealProfile, error) {
	query := `SELECT ` + dealColumns + ` FROM deal_compliance_profiles WHERE deal_id = $1` + lock
	var (
		id          uuid.UUID
		compartment string
		instrument  string
		approvedBy  sql.NullString
		approvedAt  sql.NullTime
		deal        models.DealProfile
	)
	err := q.QueryRowContext(ctx, query, uuid.UUID(dealID)).Scan(
		&id,
		&deal.IssuerCountry,
		&compartment,
		&instrument,
		&deal.MinimumInvestment,
		&deal.RiskLevel,
		&deal.RequiresProspectus,
		&deal.RequiresKeyInfoDocument,
		&deal.RequiresPPM,
		&deal.RequiresRegulatorApproval,
		&deal.RegulatorApproved,
		&approvedBy,
		&approvedAt,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find deal profile: %w", err)
	}
	deal.DealID = domain.DealID(id)
	deal.Compartment = models.Compartment(compartment)
	deal.Instrument = models.Instrument(instrument)
	deal.RegulatorApprovedBy = approvedBy.String
	if approvedAt.Valid {
		at := approvedAt.Time
		deal.RegulatorApprovedAt = &at
	}
	return &deal, nil
}

// dealArgs returns column values in dealColumns order.
func dealArgs(deal *models.DealProfile) []any {
	return []any{
		uuid.UUID(deal.DealID),
		deal.IssuerCountry,
		string(deal.Compartment),
		string(deal.Instrument),
		deal.MinimumInvestment,
		deal.RiskLevel,
		deal.RequiresProspectus,
		deal.RequiresKeyInfoDocument,
		deal.RequiresPPM,
		deal.RequiresRegulatorApproval,
		deal.RegulatorApproved,
		deal.RegulatorApprovedBy,
		deal.RegulatorApprovedAt,
		deal.CreatedAt,
		deal.UpdatedAt,
	}
}
