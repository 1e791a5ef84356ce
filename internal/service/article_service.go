package service

import (
	"context"
	"net/url"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/observability"
	"github.com/helixir/news-service/internal/outbox"
	"github.com/helixir/news-service/internal/repository"
)

// ArticleService serves article listings, lookups and mutations.
type ArticleService struct {
	base
}

// List validates raw, fetches one window of articles and its total. When the
// topic filter matches nothing the topic itself is looked up: a known topic
// yields an empty page, an unknown one NotFound.
func (s *ArticleService) List(ctx context.Context, raw url.Values) (domain.Page[domain.Article], error) {
	q, err := domain.ValidateListQuery(raw, domain.ArticleListKeys)
	if err != nil {
		return domain.Page[domain.Article]{}, err
	}
	plan := q.Plan()
	store := s.deps.Store

	articles, total, err := store.Articles().List(ctx, q.Topic, plan)
	if err != nil {
		return domain.Page[domain.Article]{}, err
	}

	if len(articles) == 0 && plan.Offset > 0 {
		total, err = store.Articles().Count(ctx, q.Topic)
		if err != nil {
			return domain.Page[domain.Article]{}, err
		}
	}

	if total == 0 && q.Topic != nil {
		if err := s.exists(ctx, store.Existence(), domain.TopicRef(*q.Topic)); err != nil {
			return domain.Page[domain.Article]{}, err
		}
		s.recordListing("articles", 0)
		return domain.EmptyPage[domain.Article](), nil
	}

	s.recordListing("articles", len(articles))
	return domain.Page[domain.Article]{Items: articles, TotalCount: total}, nil
}

// Get returns an article with its body and comment count.
func (s *ArticleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	return s.deps.Store.Articles().Get(ctx, id)
}

// Create validates and inserts an article. An unknown author or topic is
// ReferenceMissing.
func (s *ArticleService) Create(ctx context.Context, in domain.NewArticle) (*domain.Article, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var created *domain.Article
	err := s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		a, err := tx.Articles().Create(ctx, in)
		if err != nil {
			return err
		}
		created = a
		return s.publish(ctx, tx, outbox.ArticleCreated(a))
	})
	if err != nil {
		return nil, err
	}

	logger := observability.WithArticleContext(s.deps.Logger, created.ID)
	logger.Info().
		Str("topic", created.Topic).
		Str("author", created.Author).
		Msg("article created")
	return created, nil
}

// UpdateVotes adds upd.IncVotes to an existing article's votes.
func (s *ArticleService) UpdateVotes(ctx context.Context, id int64, upd domain.VoteUpdate) (*domain.Article, error) {
	if err := s.validate(upd); err != nil {
		return nil, err
	}
	inc := *upd.IncVotes

	var updated *domain.Article
	err := s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.exists(ctx, tx.Existence(), domain.ArticleRef(id)); err != nil {
			return err
		}
		a, err := tx.Articles().UpdateVotes(ctx, id, inc)
		if err != nil {
			return err
		}
		updated = a
		return s.publish(ctx, tx, outbox.ArticleVoted(a, inc))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an existing article and its comments.
func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	err := s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.exists(ctx, tx.Existence(), domain.ArticleRef(id)); err != nil {
			return err
		}
		if err := tx.Articles().Delete(ctx, id); err != nil {
			return err
		}
		return s.publish(ctx, tx, outbox.ArticleDeleted(id))
	})
	if err != nil {
		return err
	}

	logger := observability.WithArticleContext(s.deps.Logger, id)
	logger.Info().Msg("article deleted")
	return nil
}
