package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/helixir/news-service/internal/domain"
)

// Compile-time interface verification.
var _ OutboxRepository = (*PgOutboxRepository)(nil)

// maxLastErrorLen caps the stored delivery error.
const maxLastErrorLen = 1000

// PgOutboxRepository is a PostgreSQL implementation of OutboxRepository.
type PgOutboxRepository struct {
	db DBTX
}

// NewPgOutboxRepository creates a new PostgreSQL outbox repository.
func NewPgOutboxRepository(db DBTX) *PgOutboxRepository {
	return &PgOutboxRepository{db: db}
}

// Insert stores a new outbox event.
func (r *PgOutboxRepository) Insert(ctx context.Context, event *domain.OutboxEvent) error {
	if event == nil {
		return domain.NewBadRequestError("outbox event cannot be nil")
	}

	metadata := event.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO outbox_events (
			id, aggregate_type, aggregate_id, event_type, payload, metadata, created_at, max_attempts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		event.Payload,
		metadata,
		event.CreatedAt,
		event.MaxAttempts,
	)
	if err != nil {
		return translatePgError(err, "insert outbox event")
	}
	return nil
}

// ClaimPending locks the oldest deliverable events.
func (r *PgOutboxRepository) ClaimPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, metadata,
			created_at, attempts, max_attempts, last_error
		FROM outbox_events
		WHERE published_at IS NULL AND attempts < max_attempts
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, translatePgError(err, "claim outbox events")
	}
	defer rows.Close()

	events := make([]domain.OutboxEvent, 0, windowCapacity(limit))
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.Metadata,
			&e.CreatedAt, &e.Attempts, &e.MaxAttempts, &e.LastError,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox events: %w", err)
	}
	return events, nil
}

// MarkPublished stamps published_at on the given events.
func (r *PgOutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events
		SET published_at = NOW(), attempts = attempts + 1, last_error = NULL
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return translatePgError(err, "mark outbox events published")
	}
	return nil
}

// MarkFailed increments attempts and stores the delivery error.
func (r *PgOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	if len(reason) > maxLastErrorLen {
		reason = reason[:maxLastErrorLen]
	}

	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events
		SET attempts = attempts + 1, last_error = $2
		WHERE id = $1`, id, reason)
	if err != nil {
		return translatePgError(err, "mark outbox event failed")
	}
	return nil
}
