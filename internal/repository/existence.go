package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/helixir/news-service/internal/domain"
)

// ExistenceChecker confirms that a referenced row is present.
type ExistenceChecker interface {
	// Exists returns nil when a row matches ref and domain.ErrNotFound when
	// none does. Pairs outside the allow-list are rejected as internal errors.
	Exists(ctx context.Context, ref domain.ExistenceRef) error
}

// Compile-time interface verification.
var _ ExistenceChecker = (*PgExistenceChecker)(nil)

// existenceTargets lists the table/column pairs that may be probed, with the
// entity name used in error details.
var existenceTargets = map[string]map[string]string{
	"articles": {"article_id": "article"},
	"comments": {"comment_id": "comment"},
	"topics":   {"slug": "topic"},
	"users":    {"username": "user"},
}

// PgExistenceChecker is a PostgreSQL implementation of ExistenceChecker.
type PgExistenceChecker struct {
	db DBTX
}

// NewPgExistenceChecker creates a new PostgreSQL existence checker.
func NewPgExistenceChecker(db DBTX) *PgExistenceChecker {
	return &PgExistenceChecker{db: db}
}

// Exists runs SELECT EXISTS against the referenced table. Identifiers are
// quoted and the value is always bound as a parameter.
func (c *PgExistenceChecker) Exists(ctx context.Context, ref domain.ExistenceRef) error {
	entity, ok := existenceTargets[ref.Table][ref.Column]
	if !ok {
		return domain.WrapError(domain.KindInternal,
			fmt.Errorf("existence check on %s.%s is not allowed", ref.Table, ref.Column))
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		pq.QuoteIdentifier(ref.Table), pq.QuoteIdentifier(ref.Column))

	var exists bool
	if err := c.db.QueryRow(ctx, query, ref.Value).Scan(&exists); err != nil {
		return translatePgError(err, "check "+entity+" existence")
	}
	if !exists {
		return domain.NewNotFoundError(entity, fmt.Sprint(ref.Value))
	}
	return nil
}
