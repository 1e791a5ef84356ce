package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/news-service/internal/domain"
)

// Compile-time interface verification.
var (
	_ TopicRepository = (*PgTopicRepository)(nil)
	_ UserRepository  = (*PgUserRepository)(nil)
)

// PgTopicRepository is a PostgreSQL implementation of TopicRepository.
type PgTopicRepository struct {
	db DBTX
}

// NewPgTopicRepository creates a new PostgreSQL topic repository.
func NewPgTopicRepository(db DBTX) *PgTopicRepository {
	return &PgTopicRepository{db: db}
}

// List returns every topic.
func (r *PgTopicRepository) List(ctx context.Context) ([]domain.Topic, error) {
	rows, err := r.db.Query(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
	if err != nil {
		return nil, translatePgError(err, "list topics")
	}
	defer rows.Close()

	topics := []domain.Topic{}
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Slug, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}
	return topics, nil
}

// Create inserts a topic.
func (r *PgTopicRepository) Create(ctx context.Context, in domain.NewTopic) (*domain.Topic, error) {
	var t domain.Topic
	err := r.db.QueryRow(ctx,
		`INSERT INTO topics (slug, description) VALUES ($1, $2) RETURNING slug, description`,
		in.Slug, in.Description,
	).Scan(&t.Slug, &t.Description)
	if err != nil {
		return nil, translatePgError(err, "create topic")
	}
	return &t, nil
}

// PgUserRepository is a PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	db DBTX
}

// NewPgUserRepository creates a new PostgreSQL user repository.
func NewPgUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// List returns every user.
func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT username, name, COALESCE(avatar_url, '') FROM users ORDER BY username`)
	if err != nil {
		return nil, translatePgError(err, "list users")
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Username, &u.Name, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by username.
func (r *PgUserRepository) Get(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT username, name, COALESCE(avatar_url, '') FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.Name, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user", username)
		}
		return nil, translatePgError(err, "get user")
	}
	return &u, nil
}
