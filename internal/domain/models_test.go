package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_JSONOmitsEmptyBody(t *testing.T) {
	a := Article{
		ID:        1,
		Title:     "Living in the shadow of a great man",
		Topic:     "mitch",
		Author:    "butter_bridge",
		CreatedAt: time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC),
		Votes:     100,
	}

	b, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.NotContains(t, decoded, "body")
	assert.Contains(t, decoded, "comment_count")
	assert.Equal(t, float64(1), decoded["article_id"])
}

func TestVoteUpdate_RejectsNonIntegers(t *testing.T) {
	var v VoteUpdate
	assert.Error(t, json.Unmarshal([]byte(`{"inc_votes":"banana"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"inc_votes":5.5}`), &v))

	v = VoteUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"inc_votes":-3}`), &v))
	require.NotNil(t, v.IncVotes)
	assert.Equal(t, -3, *v.IncVotes)

	v = VoteUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"inc_vote":1}`), &v))
	assert.Nil(t, v.IncVotes)
}

func TestError_IsMatchesKindSentinel(t *testing.T) {
	err := NewNotFoundError("article", "999")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrBadRequest))

	wrapped := fmt.Errorf("get article: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestError_MessageAndDetail(t *testing.T) {
	err := NewNotFoundError("topic", "bananas")
	assert.Equal(t, "Resource not found", err.Message)
	assert.Equal(t, "Resource not found (topic bananas)", err.Error())

	cause := errors.New("connection reset")
	wrapped := WrapError(KindInternal, cause)
	assert.Equal(t, "Internal server error: connection reset", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrInternal)
}

func TestErrorKind_DefaultMessages(t *testing.T) {
	tests := map[ErrorKind]string{
		KindInvalidQueryShape: "Invalid query",
		KindInvalidSortColumn: "Invalid sort query",
		KindInvalidOrder:      "Invalid order query",
		KindInvalidLimit:      "Invalid limit query",
		KindInvalidPage:       "Invalid page query",
		KindBadRequest:        "Bad request",
		KindAlreadyExists:     "Resource already exists",
		KindNotFound:          "Resource not found",
		KindReferenceMissing:  "Resource does not exist",
		KindInternal:          "Internal server error",
		ErrorKind(99):         "Internal server error",
	}

	for kind, want := range tests {
		assert.Equal(t, want, kind.DefaultMessage(), kind.String())
	}
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
