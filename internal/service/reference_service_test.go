package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/outbox"
)

func TestTopicService(t *testing.T) {
	ctx := context.Background()

	t.Run("lists topics", func(t *testing.T) {
		svc := newTestServices(newMemStore(), nil)

		topics, err := svc.Topics.List(ctx)
		require.NoError(t, err)
		assert.Len(t, topics, 3)
	})

	t.Run("creates topic", func(t *testing.T) {
		store := newMemStore()
		svc := newTestServices(store, nil)

		topic, err := svc.Topics.Create(ctx, domain.NewTopic{Slug: "dogs", Description: "not cats"})
		require.NoError(t, err)
		assert.Equal(t, "dogs", topic.Slug)
		require.Len(t, store.state.events, 1)
		assert.Equal(t, domain.EventTypeTopicCreated, store.state.events[0].EventType)
	})

	t.Run("duplicate slug already exists", func(t *testing.T) {
		svc := newTestServices(newMemStore(), nil)

		_, err := svc.Topics.Create(ctx, domain.NewTopic{Slug: "cats", Description: "again"})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("missing description is bad request", func(t *testing.T) {
		svc := newTestServices(newMemStore(), nil)

		_, err := svc.Topics.Create(ctx, domain.NewTopic{Slug: "dogs"})
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})

	t.Run("disabled publisher stores no event", func(t *testing.T) {
		store := newMemStore()
		svc := New(Deps{
			Store:     store,
			Publisher: outbox.NewPublisher(outbox.NewEmitter(outbox.EmitterConfig{}), false, nil),
			Logger:    zerolog.Nop(),
		})

		_, err := svc.Topics.Create(ctx, domain.NewTopic{Slug: "dogs", Description: "not cats"})
		require.NoError(t, err)
		assert.Empty(t, store.state.events)
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestServices(store, nil)

	users, err := svc.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	u, err := svc.Users.Get(ctx, "lurker")
	require.NoError(t, err)
	assert.Equal(t, "do_nothing", u.Name)

	_, err = svc.Users.Get(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, store.existence, 2)
}
