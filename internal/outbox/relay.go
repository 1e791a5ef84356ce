package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/helixir/news-service/internal/config"
	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/observability"
	"github.com/helixir/news-service/internal/repository"
)

// Kafka header names set on relayed messages.
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderMetadata      = "metadata"
)

// MessageWriter is the subset of *kafka.Writer used by the Relay.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RelayConfig holds configuration for the outbox relay.
type RelayConfig struct {
	// PollInterval is the pause between cycles that found nothing to do.
	PollInterval time.Duration
	// BatchSize is the number of events claimed per cycle.
	BatchSize int
}

// Relay moves outbox events to Kafka. Each cycle claims a batch inside one
// transaction, writes it, and records the outcome per event before
// committing. Several relays may run against the same table.
type Relay struct {
	store   repository.Store
	writer  MessageWriter
	cfg     RelayConfig
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewKafkaWriter creates the kafka-go writer the relay publishes through.
func NewKafkaWriter(cfg config.KafkaConfig, logger zerolog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
		Logger:       observability.NewKafkaLogger(logger),
		ErrorLogger:  observability.NewKafkaErrorLogger(logger),
	}
}

// NewRelay creates a new outbox relay. metrics may be nil.
func NewRelay(store repository.Store, writer MessageWriter, cfg RelayConfig, logger zerolog.Logger, metrics *observability.Metrics) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Relay{
		store:   store,
		writer:  writer,
		cfg:     cfg,
		logger:  observability.WithComponent(logger, "outbox_relay"),
		metrics: metrics,
	}
}

// Run starts the relay loop. Blocks until context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info().
		Dur("poll_interval", r.cfg.PollInterval).
		Int("batch_size", r.cfg.BatchSize).
		Msg("starting outbox relay")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("outbox relay stopped via context cancellation")
			return ctx.Err()
		case <-timer.C:
		}

		claimed, err := r.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			r.logger.Error().Err(err).Msg("outbox relay cycle failed")
		}

		// A full batch means more may be waiting.
		next := r.cfg.PollInterval
		if err == nil && claimed == r.cfg.BatchSize {
			next = 0
		}
		timer.Reset(next)
	}
}

// RunOnce performs one relay cycle and returns the number of events claimed.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	var claimed, published, failed int

	err := r.store.WithTx(ctx, func(tx repository.Store) error {
		events, err := tx.Outbox().ClaimPending(ctx, r.cfg.BatchSize)
		if err != nil {
			return err
		}
		claimed = len(events)
		if claimed == 0 {
			return nil
		}

		msgs := make([]kafka.Message, len(events))
		for i := range events {
			msgs[i] = toMessage(events[i])
		}

		errs := perMessageErrors(r.writer.WriteMessages(ctx, msgs...), len(events))

		ok := make([]uuid.UUID, 0, len(events))
		for i, e := range events {
			if errs[i] == nil {
				ok = append(ok, e.ID)
				continue
			}

			failed++
			eventLogger := observability.WithOutboxEventContext(r.logger, e.ID.String(), e.EventType, e.Attempts+1)
			eventLogger.Warn().Err(errs[i]).Msg("failed to deliver outbox event")
			if err := tx.Outbox().MarkFailed(ctx, e.ID, errs[i].Error()); err != nil {
				return err
			}
		}

		if err := tx.Outbox().MarkPublished(ctx, ok); err != nil {
			return err
		}
		published = len(ok)
		return nil
	})

	if r.metrics != nil {
		r.metrics.RecordOutboxCycle(claimed, published, failed, time.Since(start).Seconds())
	}
	if err != nil {
		return claimed, fmt.Errorf("relay outbox events: %w", err)
	}

	if claimed > 0 {
		r.logger.Debug().
			Int("claimed", claimed).
			Int("published", published).
			Int("failed", failed).
			Msg("outbox relay cycle finished")
	}
	return claimed, nil
}

// Close closes the Kafka writer.
func (r *Relay) Close() error {
	r.logger.Info().Msg("closing outbox relay")
	return r.writer.Close()
}

// toMessage keys the message by aggregate so events of one entity land on
// the same partition in order.
func toMessage(e domain.OutboxEvent) kafka.Message {
	return kafka.Message{
		Key:   []byte(e.AggregateType + ":" + e.AggregateID),
		Value: e.Payload,
		Time:  e.CreatedAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(e.ID.String())},
			{Key: HeaderEventType, Value: []byte(e.EventType)},
			{Key: HeaderAggregateType, Value: []byte(e.AggregateType)},
			{Key: HeaderMetadata, Value: e.Metadata},
		},
	}
}

// perMessageErrors spreads a WriteMessages error over the batch. kafka-go
// reports partial failures as kafka.WriteErrors indexed like the input.
func perMessageErrors(err error, n int) []error {
	errs := make([]error, n)
	if err == nil {
		return errs
	}

	var writeErrs kafka.WriteErrors
	if errors.As(err, &writeErrs) && len(writeErrs) == n {
		copy(errs, writeErrs)
		return errs
	}

	for i := range errs {
		errs[i] = err
	}
	return errs
}
