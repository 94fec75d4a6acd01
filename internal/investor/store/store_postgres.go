package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"meridian/internal/investor/models"
	"meridian/pkg/domain"
	"meridian/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresStore persists investor profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed investor store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a store bound to a transaction. Reads through it
// lock the selected profile rows until the transaction ends.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) lockClause() string {
	if s.tx != nil {
		return " FOR UPDATE"
	}
	return ""
}

const profileColumns = `
	id, country_code, investor_type, is_pep, is_sanctioned, compliance_status,
	risk_score, verification_applicant_id, tags, status_source, reviewed_by,
	review_notes, reviewed_at, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return fmt.Errorf("investor profile is required")
	}
	tags, err := json.Marshal(nonNilTags(profile.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	query := `INSERT INTO investor_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = s.execer().ExecContext(ctx, query,
		uuid.UUID(profile.ID),
		profile.CountryCode,
		string(profile.InvestorType),
		profile.IsPEP,
		profile.IsSanctioned,
		string(profile.ComplianceStatus),
		profile.RiskScore,
		profile.VerificationApplicantID,
		tags,
		string(profile.StatusSource),
		profile.ReviewedBy,
		profile.ReviewNotes,
		profile.ReviewedAt,
		profile.Version,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert investor profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, investorID domain.InvestorID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM investor_profiles WHERE id = $1` + s.lockClause()
	profile, err := scanProfile(s.execer().QueryRowContext(ctx, query, uuid.UUID(investorID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find investor profile: %w", err)
	}
	return profile, nil
}

func (s *PostgresStore) FindByApplicantID(ctx context.Context, applicantID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM investor_profiles WHERE verification_applicant_id = $1` + s.lockClause()
	profile, err := scanProfile(s.execer().QueryRowContext(ctx, query, applicantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find investor by applicant: %w", err)
	}
	return profile, nil
}

func (s *PostgresStore) UpdateIfVersion(ctx context.Context, profile *models.Profile, expected int64) error {
	if profile == nil {
		return fmt.Errorf("investor profile is required")
	}
	tags, err := json.Marshal(nonNilTags(profile.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	query := `
		UPDATE investor_profiles
		SET country_code = $3, investor_type = $4, is_pep = $5, is_sanctioned = $6,
			compliance_status = $7, risk_score = $8, verification_applicant_id = $9,
			tags = $10, status_source = $11, reviewed_by = $12, review_notes = $13,
			reviewed_at = $14, updated_at = $15, version = version + 1
		WHERE id = $1 AND version = $2
	`
	res, err := s.execer().ExecContext(ctx, query,
		uuid.UUID(profile.ID),
		expected,
		profile.CountryCode,
		string(profile.InvestorType),
		profile.IsPEP,
		profile.IsSanctioned,
		string(profile.ComplianceStatus),
		profile.RiskScore,
		profile.VerificationApplicantID,
		tags,
		string(profile.StatusSource),
		profile.ReviewedBy,
		profile.ReviewNotes,
		profile.ReviewedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update investor profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update investor profile rows: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := s.execer().QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM investor_profiles WHERE id = $1)`, uuid.UUID(profile.ID),
		).Scan(&exists); err != nil {
			return fmt.Errorf("check investor profile: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrVersionConflict
	}
	profile.Version = expected + 1
	return nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entries ...models.HistoryEntry) error {
	query := `
		INSERT INTO investor_history (id, investor_id, field, previous, new, source, changed_by, notes, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, e := range entries {
		_, err := s.execer().ExecContext(ctx, query,
			e.ID,
			uuid.UUID(e.InvestorID),
			string(e.Field),
			e.Previous,
			e.New,
			string(e.Source),
			e.ChangedBy,
			e.Notes,
			e.ChangedAt,
		)
		if err != nil {
			return fmt.Errorf("insert investor history: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, investorID domain.InvestorID) ([]models.HistoryEntry, error) {
	if _, err := s.FindByID(ctx, investorID); err != nil {
		return nil, err
	}
	rows, err := s.execer().QueryContext(ctx, `
		SELECT id, investor_id, field, previous, new, source, changed_by, notes, changed_at
		FROM investor_history
		WHERE investor_id = $1
		ORDER BY changed_at ASC, seq ASC
	`, uuid.UUID(investorID))
	if err != nil {
		return nil, fmt.Errorf("list investor history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var (
			e             models.HistoryEntry
			investor      uuid.UUID
			field, source string
		)
		if err := rows.Scan(&e.ID, &investor, &field, &e.Previous, &e.New, &source, &e.ChangedBy, &e.Notes, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan investor history: %w", err)
		}
		e.InvestorID = domain.InvestorID(investor)
		e.Field = models.HistoryField(field)
		e.Source = models.StatusSource(source)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investor history: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) ListReconcilable(ctx context.Context, after ReconcileCursor, limit int) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM investor_profiles
		WHERE compliance_status = $1
		  AND verification_applicant_id IS NOT NULL
		  AND status_source <> $2
		  AND (updated_at, id) > ($3, $4)
		ORDER BY updated_at ASC, id ASC`
	args := []any{string(domain.StatusPendingReview), string(models.SourceManual), after.UpdatedAt, uuid.UUID(after.ID)}
	if limit > 0 {
		query += ` LIMIT $5`
		args = append(args, limit)
	}
	rows, err := s.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reconcilable investors: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investor profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investor profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes the profile. History rows go with it through ON DELETE
// CASCADE; the audit trail keeps the record of the deletion.
func (s *PostgresStore) Delete(ctx context.Context, investorID domain.InvestorID) error {
	res, err := s.execer().ExecContext(ctx, `DELETE FROM investor_profiles WHERE id = $1`, uuid.UUID(investorID))
	if err != nil {
		return fmt.Errorf("delete investor profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete investor profile rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// PostgresInvestments counts rows in the investments table.
type PostgresInvestments struct {
	db *sql.DB
}

func NewPostgresInvestments(db *sql.DB) *PostgresInvestments {
	return &PostgresInvestments{db: db}
}

func (s *PostgresInvestments) CountByInvestor(ctx context.Context, investorID domain.InvestorID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM investments WHERE investor_id = $1`, uuid.UUID(investorID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count investments: %w", err)
	}
	return count, nil
}

type profileRow interface {
	Scan(dest ...any) error
}

func scanProfile(row profileRow) (*models.Profile, error) {
	var (
		p                            models.Profile
		investorID                   uuid.UUID
		investorType, status, source string
		applicant                    sql.NullString
		tags                         []byte
		reviewedAt                   sql.NullTime
	)
	if err := row.Scan(
		&investorID,
		&p.CountryCode,
		&investorType,
		&p.IsPEP,
		&p.IsSanctioned,
		&status,
		&p.RiskScore,
		&applicant,
		&tags,
		&source,
		&p.ReviewedBy,
		&p.ReviewNotes,
		&reviewedAt,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.ID = domain.InvestorID(investorID)
	p.InvestorType = domain.InvestorType(investorType)
	p.ComplianceStatus = domain.ComplianceStatus(status)
	p.StatusSource = models.StatusSource(source)
	if applicant.Valid {
		p.VerificationApplicantID = &applicant.String
	}
	if reviewedAt.Valid {
		p.ReviewedAt = &reviewedAt.Time
	}
	p.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &p, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
