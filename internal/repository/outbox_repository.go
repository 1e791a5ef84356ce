package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/helixir/news-service/internal/domain"
)

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// Insert stores a new event. Call it with the DBTX of the transaction
	// that performs the mutation the event describes.
	Insert(ctx context.Context, event *domain.OutboxEvent) error

	// ClaimPending locks up to limit unpublished events that still have
	// attempts left. Rows locked by another relay are skipped, so it must run
	// inside a transaction.
	ClaimPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)

	// MarkPublished records successful delivery of the given events.
	MarkPublished(ctx context.Context, ids []uuid.UUID) error

	// MarkFailed records a failed delivery attempt.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}
