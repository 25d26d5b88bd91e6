package grpc_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"accountkeeper/internal/account/adapters/grpc"
	"accountkeeper/internal/account/config"
	"accountkeeper/pkg/logger"
)

func startServer(t *testing.T) (*grpc.Server, healthpb.HealthClient) {
	t.Helper()
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	server := grpc.New(&config.GRPCConfig{Host: "127.0.0.1", Port: 0})
	require.NoError(t, server.Start(ctx))
	t.Cleanup(func() { server.Stop(ctx) })

	conn, err := grpclib.NewClient(server.Addr(), grpclib.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return server, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

// statusOf не останавливает тест при ошибке, его можно вызывать из assert.Eventually.
func statusOf(client healthpb.HealthClient) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpc.ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestServer_Health(t *testing.T) {
	server, client := startServer(t)

	assert.NotEmpty(t, server.Addr())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, grpc.ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))

	server.SetServing(context.Background(), false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, grpc.ServiceName))
}

func TestServer_WatchDependencies(t *testing.T) {
	server, client := startServer(t)

	var failing atomic.Bool
	failing.Store(true)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), logger.NewNop()))
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.WatchDependencies(ctx, 10*time.Millisecond, func(context.Context) error {
			if failing.Load() {
				return errors.New("postgres unavailable")
			}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	assert.Eventually(t, func() bool {
		return statusOf(client) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	failing.Store(false)

	assert.Eventually(t, func() bool {
		return statusOf(client) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)
}

func TestServer_StartAddressInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	server := grpc.New(&config.GRPCConfig{Host: "127.0.0.1", Port: port})

	err = server.Start(context.Background())

	require.Error(t, err)
	assert.Empty(t, server.Addr())
}
