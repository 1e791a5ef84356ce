package service

import (
	"context"
	"net/url"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/outbox"
	"github.com/helixir/news-service/internal/repository"
)

// CommentService serves comment listings and mutations.
type CommentService struct {
	base
}

// ListByArticle validates raw, confirms the article exists and returns one
// window of its comments, newest first.
func (s *CommentService) ListByArticle(ctx context.Context, articleID int64, raw url.Values) (domain.Page[domain.Comment], error) {
	q, err := domain.ValidateListQuery(raw, domain.CommentListKeys)
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	plan := q.Plan()
	store := s.deps.Store

	if err := s.exists(ctx, store.Existence(), domain.ArticleRef(articleID)); err != nil {
		return domain.Page[domain.Comment]{}, err
	}

	comments, total, err := store.Comments().ListByArticle(ctx, articleID, plan)
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}

	if len(comments) == 0 && plan.Offset > 0 {
		total, err = store.Comments().CountByArticle(ctx, articleID)
		if err != nil {
			return domain.Page[domain.Comment]{}, err
		}
	}

	s.recordListing("comments", len(comments))
	return domain.Page[domain.Comment]{Items: comments, TotalCount: total}, nil
}

// Create validates and inserts a comment under an existing article. An
// unknown username is ReferenceMissing.
func (s *CommentService) Create(ctx context.Context, articleID int64, in domain.NewComment) (*domain.Comment, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var created *domain.Comment
	err := s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.exists(ctx, tx.Existence(), domain.ArticleRef(articleID)); err != nil {
			return err
		}
		c, err := tx.Comments().Create(ctx, articleID, in)
		if err != nil {
			return err
		}
		created = c
		return s.publish(ctx, tx, outbox.CommentCreated(c))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateVotes adds upd.IncVotes to an existing comment's votes.
func (s *CommentService) UpdateVotes(ctx context.Context, id int64, upd domain.VoteUpdate) (*domain.Comment, error) {
	if err := s.validate(upd); err != nil {
		return nil, err
	}
	inc := *upd.IncVotes

	var updated *domain.Comment
	err := s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.exists(ctx, tx.Existence(), domain.CommentRef(id)); err != nil {
			return err
		}
		c, err := tx.Comments().UpdateVotes(ctx, id, inc)
		if err != nil {
			return err
		}
		updated = c
		return s.publish(ctx, tx, outbox.CommentVoted(c, inc))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an existing comment.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return s.deps.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.exists(ctx, tx.Existence(), domain.CommentRef(id)); err != nil {
			return err
		}
		if err := tx.Comments().Delete(ctx, id); err != nil {
			return err
		}
		return s.publish(ctx, tx, outbox.CommentDeleted(id))
	})
}
