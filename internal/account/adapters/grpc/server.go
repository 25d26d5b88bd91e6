// Package grpc предоставляет gRPC сервер проверки состояния сервиса учетных записей.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"accountkeeper/internal/account/config"
	"accountkeeper/pkg/logger"
)

// ServiceName - имя сервиса в grpc.health.v1.
const ServiceName = "accountkeeper.account"

// Константы для логирования.
const (
	LogServerStarting = "Starting gRPC server"
	LogServerStarted  = "gRPC server started"
	LogServerStopping = "Stopping gRPC server"
	LogServerStopped  = "gRPC server stopped"
	LogStatusChanged  = "health status changed"
	ErrServerStart    = "failed to start gRPC server"
)

// DependencyCheck проверяет доступность зависимости сервиса.
type DependencyCheck func(ctx context.Context) error

// Server представляет gRPC сервер с сервисом grpc.health.v1.Health.
type Server struct {
	cfg    *config.GRPCConfig
	server *grpc.Server
	health *health.Server

	mu       sync.Mutex
	listener net.Listener
}

// New создает новый экземпляр gRPC сервера.
func New(cfg *config.GRPCConfig) *Server {
	s := &Server{
		cfg:    cfg,
		server: grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	return s
}

// Start запускает gRPC сервер и помечает сервис как SERVING.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)
	address := s.cfg.GetAddress()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.SetServing(ctx, true)

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
		}
	}()

	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
	return nil
}

// Addr возвращает фактический адрес сервера после Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// SetServing задает статус сервиса и общий статус сервера.
func (s *Server) SetServing(ctx context.Context, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
	logger.Log(ctx).Debug(ctx, LogStatusChanged, zap.String("status", status.String()))
}

// WatchDependencies периодически выполняет проверки и переводит сервис в NOT_SERVING,
// пока хотя бы одна из них завершается ошибкой. Возвращается при отмене ctx.
func (s *Server) WatchDependencies(ctx context.Context, interval time.Duration, checks ...DependencyCheck) {
	log := logger.Log(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		healthy := true
		for i, check := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			err := check(checkCtx)
			cancel()
			if err != nil {
				log.Warn(ctx, "dependency check failed", zap.Int("check", i), zap.Error(err))
				healthy = false
				break
			}
		}

		if healthy != serving {
			serving = healthy
			s.SetServing(ctx, serving)
		}
	}
}

// Stop помечает сервис как NOT_SERVING и останавливает gRPC сервер.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)

	log.Info(ctx, LogServerStopping)
	s.health.Shutdown()
	s.server.GracefulStop()
	log.Info(ctx, LogServerStopped)
}
