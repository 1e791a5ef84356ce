package repository

import (
	"context"

	"github.com/helixir/news-service/internal/domain"
)

// ArticleRepository defines the interface for article persistence operations.
type ArticleRepository interface {
	// List returns one window of articles, without bodies, and the number of
	// articles matching topic. A nil topic matches every article.
	List(ctx context.Context, topic *string, plan domain.Plan) ([]domain.Article, int64, error)

	// Count returns the number of articles matching topic.
	Count(ctx context.Context, topic *string) (int64, error)

	// Get retrieves an article with its body and comment count.
	// Returns domain.ErrNotFound if the article does not exist.
	Get(ctx context.Context, id int64) (*domain.Article, error)

	// Create inserts an article. A missing author or topic surfaces as
	// domain.ErrReferenceMissing.
	Create(ctx context.Context, in domain.NewArticle) (*domain.Article, error)

	// UpdateVotes adds inc to the article's votes and returns the updated row.
	UpdateVotes(ctx context.Context, id int64, inc int) (*domain.Article, error)

	// Delete removes an article and, by cascade, its comments.
	Delete(ctx context.Context, id int64) error
}
