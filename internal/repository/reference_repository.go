package repository

import (
	"context"

	"github.com/helixir/news-service/internal/domain"
)

// TopicRepository defines the interface for topic persistence operations.
type TopicRepository interface {
	// List returns every topic ordered by slug.
	List(ctx context.Context) ([]domain.Topic, error)

	// Create inserts a topic. A duplicate slug returns domain.ErrAlreadyExists.
	Create(ctx context.Context, in domain.NewTopic) (*domain.Topic, error)
}

// UserRepository defines the interface for user lookups.
type UserRepository interface {
	// List returns every user ordered by username.
	List(ctx context.Context) ([]domain.User, error)

	// Get retrieves a user by username.
	// Returns domain.ErrNotFound if the user does not exist.
	Get(ctx context.Context, username string) (*domain.User, error)
}
