package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the news service.
// Metrics are organized by subsystem: HTTP, listings, existence checks,
// domain errors and the outbox relay. All collectors are registered via
// promauto with the default Prometheus registry.
type Metrics struct {
	// HTTPRequestsTotal counts HTTP requests, labeled by method, route pattern and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request duration in seconds, labeled by method and route pattern.
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsRateLimited counts requests rejected by the rate limiter.
	HTTPRequestsRateLimited prometheus.Counter

	// ListingsServed counts successful listings, labeled by resource (articles, comments).
	ListingsServed *prometheus.CounterVec

	// ListingItems observes the number of items returned per listing, labeled by resource.
	ListingItems *prometheus.HistogramVec

	// ExistenceChecks counts existence probes, labeled by entity and result (found, missing, error).
	ExistenceChecks *prometheus.CounterVec

	// DomainErrors counts errors reported to clients, labeled by error kind.
	DomainErrors *prometheus.CounterVec

	// OutboxEventsEmitted counts events written to the outbox, labeled by event type.
	OutboxEventsEmitted *prometheus.CounterVec

	// OutboxEventsPublished counts events delivered to Kafka.
	OutboxEventsPublished prometheus.Counter

	// OutboxEventsFailed counts failed delivery attempts.
	OutboxEventsFailed prometheus.Counter

	// OutboxBatchSize observes the number of events claimed per relay cycle.
	OutboxBatchSize prometheus.Histogram

	// OutboxRelayDuration observes the duration of one relay cycle in seconds.
	OutboxRelayDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// HTTP
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
		HTTPRequestsRateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_rate_limited_total",
			Help:      "Total number of HTTP requests rejected by the rate limiter",
		}),

		// Listings
		ListingsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_served_total",
			Help:      "Total number of listings served by resource",
		}, []string{"resource"}),
		ListingItems: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listing_items",
			Help:      "Number of items returned per listing by resource",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
		}, []string{"resource"}),

		// Existence checks
		ExistenceChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "existence_checks_total",
			Help:      "Total number of existence checks by entity and result",
		}, []string{"entity", "result"}),

		// Errors
		DomainErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_errors_total",
			Help:      "Total number of errors reported to clients by kind",
		}, []string{"kind"}),

		// Outbox
		OutboxEventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_emitted_total",
			Help:      "Total number of events written to the outbox by event type",
		}, []string{"event_type"}),
		OutboxEventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_published_total",
			Help:      "Total number of outbox events delivered to Kafka",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox delivery attempts",
		}),
		OutboxBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_batch_size",
			Help:      "Number of outbox events claimed per relay cycle",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		OutboxRelayDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_relay_duration_seconds",
			Help:      "Duration of outbox relay cycles in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.HTTPRequestsRateLimited.Inc()
}

// RecordListing records a listing and the size of its window.
func (m *Metrics) RecordListing(resource string, items int) {
	m.ListingsServed.WithLabelValues(resource).Inc()
	m.ListingItems.WithLabelValues(resource).Observe(float64(items))
}

// RecordExistenceCheck records the result of an existence probe.
func (m *Metrics) RecordExistenceCheck(entity, result string) {
	m.ExistenceChecks.WithLabelValues(entity, result).Inc()
}

// RecordDomainError records an error reported to a client.
func (m *Metrics) RecordDomainError(kind string) {
	m.DomainErrors.WithLabelValues(kind).Inc()
}

// RecordOutboxEmitted records an event written to the outbox.
func (m *Metrics) RecordOutboxEmitted(eventType string) {
	m.OutboxEventsEmitted.WithLabelValues(eventType).Inc()
}

// RecordOutboxCycle records one relay cycle.
func (m *Metrics) RecordOutboxCycle(claimed, published, failed int, durationSeconds float64) {
	m.OutboxBatchSize.Observe(float64(claimed))
	m.OutboxEventsPublished.Add(float64(published))
	m.OutboxEventsFailed.Add(float64(failed))
	m.OutboxRelayDuration.Observe(durationSeconds)
}
