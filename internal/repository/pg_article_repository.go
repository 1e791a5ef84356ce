package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/news-service/internal/domain"
)

// Compile-time interface verification.
var _ ArticleRepository = (*PgArticleRepository)(nil)

// articleOrderColumns maps sortable columns onto qualified SQL columns.
// Only these strings are ever placed in an ORDER BY clause.
var articleOrderColumns = map[domain.SortColumn]string{
	domain.SortByCreatedAt: "a.created_at",
	domain.SortByVotes:     "a.votes",
	domain.SortByTitle:     "a.title",
	domain.SortByTopic:     "a.topic",
	domain.SortByAuthor:    "a.author",
}

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// List returns one window of articles and the total matching topic.
// The total comes from COUNT(*) OVER () so it is bound to the WHERE clause
// and not to LIMIT/OFFSET.
func (r *PgArticleRepository) List(ctx context.Context, topic *string, plan domain.Plan) ([]domain.Article, int64, error) {
	orderCol, ok := articleOrderColumns[plan.OrderColumn]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported article sort column %q", plan.OrderColumn)
	}
	dir := plan.OrderDirection.SQL()

	where, args := articleTopicFilter(topic)
	argIndex := len(args) + 1

	query := fmt.Sprintf(`
		SELECT a.article_id, a.title, a.topic, a.author, a.created_at, a.votes, a.article_img_url,
			COUNT(c.comment_id) AS comment_count,
			COUNT(*) OVER () AS total_count
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		%s
		GROUP BY a.article_id
		ORDER BY %s %s, a.article_id %s
		LIMIT $%d OFFSET $%d`,
		where, orderCol, dir, dir, argIndex, argIndex+1)
	args = append(args, plan.Limit, plan.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translatePgError(err, "list articles")
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, windowCapacity(plan.Limit))
	var total int64
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt, &a.Votes, &a.ArticleImgURL,
			&a.CommentCount, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, total, nil
}

// Count returns the number of articles matching topic.
func (r *PgArticleRepository) Count(ctx context.Context, topic *string) (int64, error) {
	where, args := articleTopicFilter(topic)
	query := "SELECT COUNT(*) FROM articles a " + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, translatePgError(err, "count articles")
	}
	return total, nil
}

func articleTopicFilter(topic *string) (string, []interface{}) {
	if topic == nil {
		return "", nil
	}
	return "WHERE a.topic = $1", []interface{}{*topic}
}

// Get retrieves a single article with its comment count.
func (r *PgArticleRepository) Get(ctx context.Context, id int64) (*domain.Article, error) {
	query := `
		SELECT a.article_id, a.title, a.topic, a.author, a.body, a.created_at, a.votes, a.article_img_url,
			COUNT(c.comment_id) AS comment_count
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		WHERE a.article_id = $1
		GROUP BY a.article_id`

	a, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
		}
		return nil, translatePgError(err, "get article")
	}
	return a, nil
}

// Create inserts an article and returns it with a zero comment count.
func (r *PgArticleRepository) Create(ctx context.Context, in domain.NewArticle) (*domain.Article, error) {
	imgURL := strings.TrimSpace(in.ArticleImgURL)
	if imgURL == "" {
		imgURL = domain.DefaultArticleImgURL
	}

	query := `
		INSERT INTO articles (author, title, body, topic, article_img_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url, 0`

	a, err := scanArticle(r.db.QueryRow(ctx, query, in.Author, in.Title, in.Body, in.Topic, imgURL))
	if err != nil {
		return nil, translatePgError(err, "create article")
	}
	return a, nil
}

// UpdateVotes adds inc to the article's votes.
func (r *PgArticleRepository) UpdateVotes(ctx context.Context, id int64, inc int) (*domain.Article, error) {
	query := `
		UPDATE articles
		SET votes = votes + $2
		WHERE article_id = $1
		RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url,
			(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.article_id)`

	a, err := scanArticle(r.db.QueryRow(ctx, query, id, inc))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
		}
		return nil, translatePgError(err, "update article votes")
	}
	return a, nil
}

// Delete removes an article. Its comments are removed by ON DELETE CASCADE.
func (r *PgArticleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE article_id = $1`, id)
	if err != nil {
		return translatePgError(err, "delete article")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
	}
	return nil
}

// scanArticle scans a full article row (with body) from a pgx.Row.
func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt, &a.Votes, &a.ArticleImgURL,
		&a.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
