package outbox

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/helixir/news-service/internal/domain"
)

const (
	// defaultMaxAttempts is the default maximum number of delivery attempts for outbox events.
	defaultMaxAttempts = 5

	defaultServiceName = "news-service"
)

// EmitterConfig configures the Emitter with service context.
type EmitterConfig struct {
	// ServiceName identifies the source service in event metadata.
	ServiceName string
	// MaxAttempts caps delivery attempts per event.
	MaxAttempts int
}

// EmitParams contains the parameters for emitting an event.
type EmitParams struct {
	// AggregateType is the kind of entity the event is about (article, comment, topic).
	AggregateType string
	// AggregateID identifies the entity.
	AggregateID string
	// EventType is the type of event (e.g., "article.created").
	EventType string
	// Payload is the event payload that will be JSON-serialized.
	Payload interface{}
	// CorrelationID of the request that caused the event (optional).
	CorrelationID string
}

// eventMetadata is stored in the metadata column and relayed as headers.
type eventMetadata struct {
	Source        string `json:"source"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Emitter creates outbox events enriched with service metadata.
type Emitter struct {
	config EmitterConfig
	now    func() time.Time
}

// NewEmitter creates a new Emitter with the given service configuration.
func NewEmitter(config EmitterConfig) *Emitter {
	if config.ServiceName == "" {
		config.ServiceName = defaultServiceName
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaultMaxAttempts
	}
	return &Emitter{config: config, now: time.Now}
}

// Emit creates an OutboxEvent from the given parameters.
// The event is ready to be inserted into the outbox table.
func (e *Emitter) Emit(params EmitParams) (*domain.OutboxEvent, error) {
	if params.AggregateType == "" {
		return nil, fmt.Errorf("aggregate_type is required")
	}
	if params.AggregateID == "" {
		return nil, fmt.Errorf("aggregate_id is required")
	}
	if params.EventType == "" {
		return nil, fmt.Errorf("event_type is required")
	}

	payload, err := json.Marshal(params.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	metadata, err := json.Marshal(eventMetadata{
		Source:        e.config.ServiceName,
		CorrelationID: params.CorrelationID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return &domain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: params.AggregateType,
		AggregateID:   params.AggregateID,
		EventType:     params.EventType,
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     e.now().UTC(),
		MaxAttempts:   e.config.MaxAttempts,
	}, nil
}

// ArticleCreated builds the params of an article.created event.
func ArticleCreated(a *domain.Article) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeArticle,
		AggregateID:   strconv.FormatInt(a.ID, 10),
		EventType:     domain.EventTypeArticleCreated,
		Payload: domain.ArticleCreatedPayload{
			ArticleID: a.ID,
			Title:     a.Title,
			Topic:     a.Topic,
			Author:    a.Author,
		},
	}
}

// ArticleVoted builds the params of an article.voted event.
func ArticleVoted(a *domain.Article, inc int) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeArticle,
		AggregateID:   strconv.FormatInt(a.ID, 10),
		EventType:     domain.EventTypeArticleVoted,
		Payload:       domain.VotedPayload{ID: a.ID, IncVotes: inc, Votes: a.Votes},
	}
}

// ArticleDeleted builds the params of an article.deleted event.
func ArticleDeleted(id int64) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeArticle,
		AggregateID:   strconv.FormatInt(id, 10),
		EventType:     domain.EventTypeArticleDeleted,
		Payload:       domain.DeletedPayload{ID: id},
	}
}

// CommentCreated builds the params of a comment.created event.
func CommentCreated(c *domain.Comment) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeComment,
		AggregateID:   strconv.FormatInt(c.ID, 10),
		EventType:     domain.EventTypeCommentCreated,
		Payload: domain.CommentCreatedPayload{
			CommentID: c.ID,
			ArticleID: c.ArticleID,
			Author:    c.Author,
		},
	}
}

// CommentVoted builds the params of a comment.voted event.
func CommentVoted(c *domain.Comment, inc int) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeComment,
		AggregateID:   strconv.FormatInt(c.ID, 10),
		EventType:     domain.EventTypeCommentVoted,
		Payload:       domain.VotedPayload{ID: c.ID, IncVotes: inc, Votes: c.Votes},
	}
}

// CommentDeleted builds the params of a comment.deleted event.
func CommentDeleted(id int64) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeComment,
		AggregateID:   strconv.FormatInt(id, 10),
		EventType:     domain.EventTypeCommentDeleted,
		Payload:       domain.DeletedPayload{ID: id},
	}
}

// TopicCreated builds the params of a topic.created event.
func TopicCreated(t *domain.Topic) EmitParams {
	return EmitParams{
		AggregateType: domain.AggregateTypeTopic,
		AggregateID:   t.Slug,
		EventType:     domain.EventTypeTopicCreated,
		Payload:       domain.TopicCreatedPayload{Slug: t.Slug},
	}
}
