package outbox

import (
	"context"
	"fmt"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/observability"
)

// Inserter is the subset of repository.OutboxRepository needed by the
// Publisher. Pass the one bound to the transaction of the mutation.
type Inserter interface {
	Insert(ctx context.Context, event *domain.OutboxEvent) error
}

// Publisher combines the Emitter and an Inserter for a complete event
// publishing workflow.
type Publisher struct {
	emitter *Emitter
	enabled bool
	metrics *observability.Metrics
}

// NewPublisher creates a new Publisher. A disabled Publisher drops every
// event; metrics may be nil.
func NewPublisher(emitter *Emitter, enabled bool, metrics *observability.Metrics) *Publisher {
	return &Publisher{
		emitter: emitter,
		enabled: enabled,
		metrics: metrics,
	}
}

// Publish emits an event and inserts it through ins. The correlation ID is
// taken from ctx when params carries none.
func (p *Publisher) Publish(ctx context.Context, ins Inserter, params EmitParams) error {
	if p == nil || !p.enabled {
		return nil
	}

	if params.CorrelationID == "" {
		params.CorrelationID = observability.CorrelationIDFromContext(ctx)
	}

	event, err := p.emitter.Emit(params)
	if err != nil {
		return fmt.Errorf("emit event: %w", err)
	}

	if err := ins.Insert(ctx, event); err != nil {
		return fmt.Errorf("store event: %w", err)
	}

	if p.metrics != nil {
		p.metrics.RecordOutboxEmitted(event.EventType)
	}
	return nil
}

// Enabled reports whether events are recorded.
func (p *Publisher) Enabled() bool {
	return p != nil && p.enabled
}
