// Package server provides the gRPC server of the news service. It exposes the
// standard grpc.health.v1 service, driven by database health, and server
// reflection.
package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/helixir/news-service/internal/database"
)

// ServiceName is the health service name clients probe.
const ServiceName = "news.v1.NewsService"

// DefaultHealthInterval is how often database health is polled.
const DefaultHealthInterval = 10 * time.Second

// HealthChecker reports database health.
type HealthChecker interface {
	Health(ctx context.Context) database.HealthStatus
}

// HealthMonitor mirrors database health into a gRPC health server.
type HealthMonitor struct {
	health   *health.Server
	checker  HealthChecker
	interval time.Duration
	logger   zerolog.Logger
}

// NewHealthMonitor creates a monitor. Both the overall ("") and ServiceName
// statuses start NOT_SERVING until the first check.
func NewHealthMonitor(checker HealthChecker, interval time.Duration, logger zerolog.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	m := &HealthMonitor{
		health:   health.NewServer(),
		checker:  checker,
		interval: interval,
		logger:   logger.With().Str("component", "grpc-health").Logger(),
	}
	m.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return m
}

// Server returns the underlying grpc health server.
func (m *HealthMonitor) Server() *health.Server {
	return m.health
}

// Check polls the database once and updates the serving status.
func (m *HealthMonitor) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := m.checker.Health(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if st.Status != "healthy" {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		m.logger.Warn().Str("error", st.Error).Msg("database unhealthy")
	}
	m.set(status)
	return status
}

// Run checks health every interval until ctx is cancelled, then marks the
// service NOT_SERVING.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and ignores later updates.
func (m *HealthMonitor) Shutdown() {
	m.health.Shutdown()
}

func (m *HealthMonitor) set(status healthpb.HealthCheckResponse_ServingStatus) {
	m.health.SetServingStatus("", status)
	m.health.SetServingStatus(ServiceName, status)
}

// NewGRPCServer builds a gRPC server with keepalive and size limits, and
// registers the health service of m and server reflection.
func NewGRPCServer(m *HealthMonitor) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxConcurrentStreams(100),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     15 * time.Minute,
			MaxConnectionAge:      30 * time.Minute,
			MaxConnectionAgeGrace: 5 * time.Minute,
			Time:                  5 * time.Minute,
			Timeout:               1 * time.Minute,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Minute,
			PermitWithoutStream: true,
		}),
	)

	healthpb.RegisterHealthServer(grpcServer, m.Server())
	reflection.Register(grpcServer)

	return grpcServer
}
