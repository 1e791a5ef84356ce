// Package observability provides logging and metrics support for the news
// service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for HTTP traffic, listings, existence checks and the outbox relay
//   - Context helpers for propagating the correlation ID of a request
//   - A kafka-go logger adapter
//
// # Logging
//
// Create a logger from configuration:
//
//	logger := observability.NewLogger(observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//
//	logger = observability.WithComponent(logger, "http")
//	logger.Info().Str("correlation_id", id).Msg("request served")
//
// # Metrics
//
//	metrics := observability.NewMetrics("news_service")
//	metrics.RecordListing("articles", len(page.Items))
//
// # Standard Fields
//
//   - correlation_id: X-Correlation-ID of the request
//   - component: owning subsystem (http, service, outbox, kafka)
//   - article_id: article identifier
//   - event_id, event_type: outbox event
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
