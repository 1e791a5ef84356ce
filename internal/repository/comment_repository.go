package repository

import (
	"context"

	"github.com/helixir/news-service/internal/domain"
)

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	// ListByArticle returns one window of an article's comments and the
	// article's total comment count.
	ListByArticle(ctx context.Context, articleID int64, plan domain.Plan) ([]domain.Comment, int64, error)

	// CountByArticle returns the number of comments on an article.
	CountByArticle(ctx context.Context, articleID int64) (int64, error)

	// Create inserts a comment authored by in.Username under articleID.
	Create(ctx context.Context, articleID int64, in domain.NewComment) (*domain.Comment, error)

	// UpdateVotes adds inc to the comment's votes and returns the updated row.
	UpdateVotes(ctx context.Context, id int64, inc int) (*domain.Comment, error)

	// Delete removes a comment.
	Delete(ctx context.Context, id int64) error
}
