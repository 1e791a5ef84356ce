package server

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/helixir/news-service/internal/database"
)

// switchableHealth returns whatever status was last set.
type switchableHealth struct {
	mu     sync.Mutex
	status string
	calls  int
}

func (h *switchableHealth) Health(context.Context) database.HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return database.HealthStatus{Status: h.status, Error: "x"}
}

func (h *switchableHealth) set(status string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
}

func (h *switchableHealth) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func checkStatus(t *testing.T, m *HealthMonitor, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthMonitor_Check(t *testing.T) {
	checker := &switchableHealth{status: "healthy"}
	m := NewHealthMonitor(checker, time.Second, zerolog.Nop())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, m, ServiceName))

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, m.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, m, ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, m, ""))

	checker.set("unhealthy")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, m.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, m, ServiceName))
}

func TestHealthMonitor_Run(t *testing.T) {
	checker := &switchableHealth{status: "healthy"}
	m := NewHealthMonitor(checker, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return checker.count() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, m, ServiceName))

	cancel()
	<-done
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, m, ServiceName))
}

func TestNewHealthMonitor_DefaultInterval(t *testing.T) {
	m := NewHealthMonitor(&switchableHealth{}, 0, zerolog.Nop())
	assert.Equal(t, DefaultHealthInterval, m.interval)
}

func TestNewGRPCServer_ServesHealth(t *testing.T) {
	checker := &switchableHealth{status: "healthy"}
	m := NewHealthMonitor(checker, time.Second, zerolog.Nop())
	m.Check(context.Background())

	lis := bufconn.Listen(1024 * 1024)
	srv := NewGRPCServer(m)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
