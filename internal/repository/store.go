package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/helixir/news-service/internal/database"
)

// Store groups the repositories over one DBTX.
type Store interface {
	Articles() ArticleRepository
	Comments() CommentRepository
	Topics() TopicRepository
	Users() UserRepository
	Outbox() OutboxRepository
	Existence() ExistenceChecker

	// WithTx runs fn with a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transactional Store runs fn in the same transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// TxBeginner is a DBTX that can start transactions. *database.DB and
// pgxmock pools satisfy it.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Compile-time interface verification.
var _ Store = (*PgStore)(nil)

// PgStore is the PostgreSQL implementation of Store.
type PgStore struct {
	db       DBTX
	beginner TxBeginner
	logger   zerolog.Logger

	articles  *PgArticleRepository
	comments  *PgCommentRepository
	topics    *PgTopicRepository
	users     *PgUserRepository
	outbox    *PgOutboxRepository
	existence *PgExistenceChecker
}

// NewPgStore creates a Store over a pool.
func NewPgStore(db TxBeginner, logger zerolog.Logger) *PgStore {
	s := newPgStore(db, logger)
	s.beginner = db
	return s
}

func newPgStore(db DBTX, logger zerolog.Logger) *PgStore {
	return &PgStore{
		db:        db,
		logger:    logger,
		articles:  NewPgArticleRepository(db),
		comments:  NewPgCommentRepository(db),
		topics:    NewPgTopicRepository(db),
		users:     NewPgUserRepository(db),
		outbox:    NewPgOutboxRepository(db),
		existence: NewPgExistenceChecker(db),
	}
}

func (s *PgStore) Articles() ArticleRepository { return s.articles }
func (s *PgStore) Comments() CommentRepository { return s.comments }
func (s *PgStore) Topics() TopicRepository     { return s.topics }
func (s *PgStore) Users() UserRepository       { return s.users }
func (s *PgStore) Outbox() OutboxRepository    { return s.outbox }
func (s *PgStore) Existence() ExistenceChecker { return s.existence }

// WithTx begins a transaction and hands fn a Store bound to it.
func (s *PgStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.beginner == nil {
		return fn(s)
	}

	tx, err := s.beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	return database.RunInTx(ctx, tx, s.logger, func(tx pgx.Tx) error {
		return fn(newPgStore(tx, s.logger))
	})
}
