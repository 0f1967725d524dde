package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events to the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert writes one audit event.
func (s *PostgresStore) Insert(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (
			id, correlation_id, action, thread_id, status,
			payload, external_id, error_details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.CorrelationID,
		event.Action,
		nullString(event.ThreadID),
		event.Status,
		[]byte(event.Payload),
		nullString(event.ExternalID),
		nullString(event.ErrorDetails),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: failed to insert event: %w", err)
	}
	return nil
}

// Query retrieves audit events matching the filter, newest first.
func (s *PostgresStore) Query(ctx context.Context, filter Filter) ([]Event, error) {
	query := `
		SELECT id, correlation_id, action, thread_id, status,
			   payload, external_id, error_details, created_at
		FROM audit_events
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.CorrelationID != "" {
		query += fmt.Sprintf(" AND correlation_id = $%d", argIdx)
		args = append(args, filter.CorrelationID)
		argIdx++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, filter.Action)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var threadID, externalID, errorDetails sql.NullString
		var payload []byte
		err := rows.Scan(
			&e.ID, &e.CorrelationID, &e.Action, &threadID, &e.Status,
			&payload, &externalID, &errorDetails, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("audit: failed to scan event: %w", err)
		}
		e.ThreadID = threadID.String
		e.ExternalID = externalID.String
		e.ErrorDetails = errorDetails.String
		e.Payload = payload
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
