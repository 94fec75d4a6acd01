package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	id "meridian/pkg/domain"
	audit "meridian/pkg/platform/audit"
	"meridian/pkg/platform/audit/outbox"
	outboxpg "meridian/pkg/platform/audit/outbox/store/postgres"

	"github.com/google/uuid"
)

// Store implements audit.Store using PostgreSQL.
type Store struct {
	db     *sql.DB
	outbox bool
}

type Option func(*Store)

// WithOutbox also writes every event to the outbox table in the same
// transaction, for publication to Kafka by the outbox worker.
func WithOutbox() Option {
	return func(s *Store) {
		s.outbox = true
	}
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Append inserts an audit event into the audit_events table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	return s.AppendWithID(ctx, uuid.New(), event)
}

// AppendWithID inserts an audit event with a specific ID. Replays of the same
// ID are ignored, which lets the outbox consumer deliver at least once.
func (s *Store) AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error {
	if !s.outbox {
		return insertEvent(ctx, s.db, eventID, event)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op
	}()

	if err := insertEvent(ctx, tx, eventID, event); err != nil {
		return err
	}
	if err := outbox.NewAuditStore(outboxpg.NewTx(tx)).Append(ctx, event); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit transaction: %w", err)
	}
	return nil
}

func insertEvent(ctx context.Context, db execer, eventID uuid.UUID, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, investor_id, subject, action,
			decision, reason, actor_id, request_id, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	var investorID *uuid.UUID
	if !event.InvestorID.IsNil() {
		iid := uuid.UUID(event.InvestorID)
		investorID = &iid
	}
	details, err := encodeDetails(event.Details)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, query,
		eventID,
		string(event.CategoryOrDefault()),
		event.Timestamp,
		investorID,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.ActorID,
		event.RequestID,
		details,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByInvestor returns events for a specific investor, newest first.
func (s *Store) ListByInvestor(ctx context.Context, investorID id.InvestorID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, investor_id, subject, action,
			   decision, reason, actor_id, request_id, details
		FROM audit_events
		WHERE investor_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(investorID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, investor_id, subject, action,
			   decision, reason, actor_id, request_id, details
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category   string
			event      audit.Event
			investorID *uuid.UUID
			details    []byte
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&investorID,
			&event.Subject,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.ActorID,
			&event.RequestID,
			&details,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		if investorID != nil {
			event.InvestorID = id.InvestorID(*investorID)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}

func encodeDetails(details map[string]string) ([]byte, error) {
	if len(details) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode audit details: %w", err)
	}
	return b, nil
}
