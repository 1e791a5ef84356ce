package repository

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/news-service/internal/domain"
)

var commentColumns = []string{"comment_id", "article_id", "body", "votes", "author", "created_at"}

func TestPgCommentRepository_ListByArticle(t *testing.T) {
	now := time.Date(2020, 4, 6, 12, 17, 0, 0, time.UTC)

	t.Run("second page returns remaining comment and total", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)

		q := domain.DefaultListQuery()
		q.Page = 2

		mock.ExpectQuery(`FROM comments WHERE article_id = \$1 ORDER BY created_at DESC, comment_id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(int64(1), 10, 10).
			WillReturnRows(pgxmock.NewRows(append(commentColumns, "total_count")).
				AddRow(int64(9), int64(1), "Superficially charming", 0, "icellusedkars", now, int64(11)))

		comments, total, err := repo.ListByArticle(context.Background(), 1, q.Plan())
		require.NoError(t, err)
		assert.Equal(t, int64(11), total)
		require.Len(t, comments, 1)
		assert.Equal(t, int64(9), comments[0].ID)
		assert.Equal(t, "icellusedkars", comments[0].Author)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects sort columns comments do not have", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		plan := domain.Plan{Limit: 10, OrderColumn: domain.SortByTitle, OrderDirection: domain.OrderAsc}

		_, _, err = repo.ListByArticle(context.Background(), 1, plan)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported comment sort column")
	})
}

func TestPgCommentRepository_CountByArticle(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgCommentRepository(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE article_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(11)))

	total, err := repo.CountByArticle(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCommentRepository_Create(t *testing.T) {
	now := time.Now().UTC()

	t.Run("inserts comment authored by username", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		mock.ExpectQuery(`INSERT INTO comments \(article_id, author, body\)`).
			WithArgs(int64(2), "lurker", "first!").
			WillReturnRows(pgxmock.NewRows(commentColumns).
				AddRow(int64(19), int64(2), "first!", 0, "lurker", now))

		c, err := repo.Create(context.Background(), 2, domain.NewComment{Username: "lurker", Body: "first!"})
		require.NoError(t, err)
		assert.Equal(t, int64(19), c.ID)
		assert.Equal(t, int64(2), c.ArticleID)
		assert.Equal(t, "lurker", c.Author)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown author becomes reference missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		mock.ExpectQuery(`INSERT INTO comments`).
			WithArgs(int64(2), "ghost", "boo").
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err = repo.Create(context.Background(), 2, domain.NewComment{Username: "ghost", Body: "boo"})
		assert.True(t, errors.Is(err, domain.ErrReferenceMissing))
	})
}

func TestPgCommentRepository_UpdateVotes(t *testing.T) {
	now := time.Now().UTC()

	t.Run("returns updated comment", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		mock.ExpectQuery(`UPDATE comments SET votes = votes \+ \$2 WHERE comment_id = \$1`).
			WithArgs(int64(1), 3).
			WillReturnRows(pgxmock.NewRows(commentColumns).
				AddRow(int64(1), int64(9), "Oh, I've got compassion", 19, "butter_bridge", now))

		c, err := repo.UpdateVotes(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 19, c.Votes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row updated", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		mock.ExpectQuery(`UPDATE comments`).
			WithArgs(int64(500), 1).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.UpdateVotes(context.Background(), 500, 1)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestPgCommentRepository_Delete(t *testing.T) {
	t.Run("deletes existing comment", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		mock.ExpectExec(`DELETE FROM comments WHERE comment_id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(context.Background(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgCommentRepository(mock)
		mock.ExpectExec(`DELETE FROM comments`).
			WithArgs(int64(1000)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = repo.Delete(context.Background(), 1000)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestPgCommentRepository_ListByArticle_HugeLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	q, err := domain.ValidateListQuery(url.Values{"limit": {"100000000000"}}, domain.CommentListKeys)
	require.NoError(t, err)

	mock.ExpectQuery(`FROM comments WHERE article_id = \$1`).
		WithArgs(int64(1), 100_000_000_000, 0).
		WillReturnRows(pgxmock.NewRows(append(commentColumns, "total_count")))

	comments, total, err := NewPgCommentRepository(mock).ListByArticle(context.Background(), 1, q.Plan())
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
