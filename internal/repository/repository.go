// Package repository provides data access interfaces and implementations
// for the News Service.
//
// # Overview
//
// This package defines repository interfaces and their PostgreSQL implementations
// following the repository pattern to abstract data persistence from business logic.
//
//   - ArticleRepository: windowed article listings, lookup, creation, votes, deletion
//   - CommentRepository: windowed comment listings per article, creation, votes, deletion
//   - TopicRepository and UserRepository: reference data
//   - OutboxRepository: transactional outbox rows and relay claims
//   - ExistenceChecker: allow-listed "does this row exist" probes
//
// Store groups the repositories and runs them inside a transaction.
//
// # Error Handling
//
// Methods return *domain.Error values for conditions the caller can act on:
//
//   - domain.ErrNotFound: the addressed row does not exist
//   - domain.ErrReferenceMissing: a foreign key points at a missing row (23503)
//   - domain.ErrAlreadyExists: unique constraint violation (23505)
//   - domain.ErrBadRequest: invalid text representation or not-null violation (22P02, 23502)
//
// Everything else is wrapped with fmt.Errorf and %w.
package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/helixir/news-service/internal/database"
	"github.com/helixir/news-service/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction contexts.
// This allows repositories to work with both direct pool connections and transactions.
//
//	type PgArticleRepository struct {
//	    db DBTX
//	}
//
//	func NewPgArticleRepository(db DBTX) *PgArticleRepository {
//	    return &PgArticleRepository{db: db}
//	}
type DBTX = database.DBTX

// PostgreSQL error codes translated into domain errors.
const (
	pgCodeStringDataRightTruncation = "22001"
	pgCodeNumericValueOutOfRange    = "22003"
	pgCodeInvalidTextRepresentation = "22P02"
	pgCodeNotNullViolation          = "23502"
	pgCodeForeignKeyViolation       = "23503"
	pgCodeUniqueViolation           = "23505"
)

// translatePgError maps integrity violations onto domain error kinds and
// wraps anything else with the failed operation.
func translatePgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeInvalidTextRepresentation, pgCodeNotNullViolation,
			pgCodeStringDataRightTruncation, pgCodeNumericValueOutOfRange:
			return domain.WrapError(domain.KindBadRequest, err)
		case pgCodeForeignKeyViolation:
			return domain.WrapError(domain.KindReferenceMissing, err)
		case pgCodeUniqueViolation:
			return domain.WrapError(domain.KindAlreadyExists, err)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// maxWindowPrealloc caps the slice capacity reserved for a listing window.
// Limits are unbounded, so larger windows grow on append.
const maxWindowPrealloc = 100

func windowCapacity(limit int) int {
	return max(0, min(limit, maxWindowPrealloc))
}
