package service

import (
	"context"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/outbox"
	"github.com/helixir/news-service/internal/repository"
)

// TopicService serves topics.
type TopicService struct {
	base
}

// List returns every topic.
func (s *TopicService) List(ctx context.Context) ([]domain.Topic, error) {
	return s.deps.Store.Topics().List(ctx)
}

// Create validates and inserts a topic. A taken slug is AlreadyExists.
func (s *TopicService) Create(ctx context.Context, in domain.NewTopic) (*domain.Topic, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var created *domain.Topic
	err := s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		t, err := tx.Topics().Create(ctx, in)
		if err != nil {
			return err
		}
		created = t
		return s.publish(ctx, tx, outbox.TopicCreated(t))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UserService serves users.
type UserService struct {
	base
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.deps.Store.Users().List(ctx)
}

// Get returns a user after confirming the username exists.
func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	if err := s.exists(ctx, s.deps.Store.Existence(), domain.UserRef(username)); err != nil {
		return nil, err
	}
	return s.deps.Store.Users().Get(ctx, username)
}
