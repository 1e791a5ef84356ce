package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants for outbox events.
const (
	EventTypeArticleCreated = "article.created"
	EventTypeArticleVoted   = "article.voted"
	EventTypeArticleDeleted = "article.deleted"
	EventTypeCommentCreated = "comment.created"
	EventTypeCommentVoted   = "comment.voted"
	EventTypeCommentDeleted = "comment.deleted"
	EventTypeTopicCreated   = "topic.created"
)

// Aggregate types carried on outbox events.
const (
	AggregateTypeArticle = "article"
	AggregateTypeComment = "comment"
	AggregateTypeTopic   = "topic"
)

// OutboxEvent is a row of the outbox_events table.
type OutboxEvent struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Metadata      []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Attempts      int
	MaxAttempts   int
	LastError     *string
}

// ArticleCreatedPayload is the payload for article.created events.
type ArticleCreatedPayload struct {
	ArticleID int64  `json:"article_id"`
	Title     string `json:"title"`
	Topic     string `json:"topic"`
	Author    string `json:"author"`
}

// VotedPayload is the payload for article.voted and comment.voted events.
type VotedPayload struct {
	ID       int64 `json:"id"`
	IncVotes int   `json:"inc_votes"`
	Votes    int   `json:"votes"`
}

// DeletedPayload is the payload for article.deleted and comment.deleted events.
type DeletedPayload struct {
	ID int64 `json:"id"`
}

// CommentCreatedPayload is the payload for comment.created events.
type CommentCreatedPayload struct {
	CommentID int64  `json:"comment_id"`
	ArticleID int64  `json:"article_id"`
	Author    string `json:"author"`
}

// TopicCreatedPayload is the payload for topic.created events.
type TopicCreatedPayload struct {
	Slug string `json:"slug"`
}
