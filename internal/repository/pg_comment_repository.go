package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/news-service/internal/domain"
)

// Compile-time interface verification.
var _ CommentRepository = (*PgCommentRepository)(nil)

var commentOrderColumns = map[domain.SortColumn]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByVotes:     "votes",
}

// PgCommentRepository is a PostgreSQL implementation of CommentRepository.
type PgCommentRepository struct {
	db DBTX
}

// NewPgCommentRepository creates a new PostgreSQL comment repository.
func NewPgCommentRepository(db DBTX) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

// ListByArticle returns one window of comments on articleID, newest first
// by default, with the article's total comment count.
func (r *PgCommentRepository) ListByArticle(ctx context.Context, articleID int64, plan domain.Plan) ([]domain.Comment, int64, error) {
	orderCol, ok := commentOrderColumns[plan.OrderColumn]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported comment sort column %q", plan.OrderColumn)
	}
	dir := plan.OrderDirection.SQL()

	query := fmt.Sprintf(`
		SELECT comment_id, article_id, body, votes, author, created_at,
			COUNT(*) OVER () AS total_count
		FROM comments
		WHERE article_id = $1
		ORDER BY %s %s, comment_id %s
		LIMIT $2 OFFSET $3`, orderCol, dir, dir)

	rows, err := r.db.Query(ctx, query, articleID, plan.Limit, plan.Offset)
	if err != nil {
		return nil, 0, translatePgError(err, "list comments")
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0, windowCapacity(plan.Limit))
	var total int64
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Body, &c.Votes, &c.Author, &c.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, total, nil
}

// CountByArticle returns the number of comments on articleID.
func (r *PgCommentRepository) CountByArticle(ctx context.Context, articleID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE article_id = $1`, articleID).Scan(&total)
	if err != nil {
		return 0, translatePgError(err, "count comments")
	}
	return total, nil
}

// Create inserts a comment under articleID.
func (r *PgCommentRepository) Create(ctx context.Context, articleID int64, in domain.NewComment) (*domain.Comment, error) {
	query := `
		INSERT INTO comments (article_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING comment_id, article_id, body, votes, author, created_at`

	c, err := scanComment(r.db.QueryRow(ctx, query, articleID, in.Username, in.Body))
	if err != nil {
		return nil, translatePgError(err, "create comment")
	}
	return c, nil
}

// UpdateVotes adds inc to the comment's votes.
func (r *PgCommentRepository) UpdateVotes(ctx context.Context, id int64, inc int) (*domain.Comment, error) {
	query := `
		UPDATE comments
		SET votes = votes + $2
		WHERE comment_id = $1
		RETURNING comment_id, article_id, body, votes, author, created_at`

	c, err := scanComment(r.db.QueryRow(ctx, query, id, inc))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("comment", strconv.FormatInt(id, 10))
		}
		return nil, translatePgError(err, "update comment votes")
	}
	return c, nil
}

// Delete removes a comment.
func (r *PgCommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return translatePgError(err, "delete comment")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("comment", strconv.FormatInt(id, 10))
	}
	return nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.ArticleID, &c.Body, &c.Votes, &c.Author, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
