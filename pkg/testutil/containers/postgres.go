//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"meridian/internal/platform/database"
	"meridian/pkg/domain"
)

// meridianTables lists every migrated table, children before parents.
var meridianTables = []string{
	"outbox",
	"audit_events",
	"investments",
	"investor_history",
	"investor_profiles",
	"deal_compliance_profiles",
}

// PostgresContainer is a migrated Meridian database.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded migrations.
// The container is not terminated on test cleanup; the Manager shares it and
// the testcontainers reaper removes it when the binary exits.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:18-alpine",
		postgres.WithDatabase("meridian_test"),
		postgres.WithUsername("meridian"),
		postgres.WithPassword("meridian_test_password"),
		testcontainers.WithWaitStrategy(
			// Postgres logs readiness once for the init server and once for the real one.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	pc, err := connect(ctx, container)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("prepare postgres: %v", err)
	}
	return pc
}

func connect(ctx context.Context, container *postgres.PostgresContainer) (*PostgresContainer, error) {
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("connection string: %w", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// TruncateTables empties the named tables in one statement.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE"); err != nil {
		return fmt.Errorf("truncate %s: %w", strings.Join(tables, ", "), err)
	}
	return nil
}

// TruncateAll resets the database between tests.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	return p.TruncateTables(ctx, meridianTables...)
}

func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// CreateInvestment records a subscription for investorID against a random
// deal, which blocks deletion of the investor.
func (p *PostgresContainer) CreateInvestment(ctx context.Context, t testing.TB, investorID domain.InvestorID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if _, err := p.Exec(ctx,
		`INSERT INTO investments (id, investor_id, deal_id, amount, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		id, uuid.UUID(investorID), uuid.New(), "1000.00",
	); err != nil {
		t.Fatalf("insert investment: %v", err)
	}
	return id
}
