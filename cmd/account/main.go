// Package main реализует точку входа сервиса учетных записей.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"accountkeeper/internal/account/adapters/grpc"
	accounthttp "accountkeeper/internal/account/adapters/http"
	"accountkeeper/internal/account/adapters/http/middleware"
	"accountkeeper/internal/account/adapters/notifier"
	"accountkeeper/internal/account/adapters/postgres"
	"accountkeeper/internal/account/adapters/services"
	"accountkeeper/internal/account/adapters/session"
	"accountkeeper/internal/account/app"
	"accountkeeper/internal/account/config"
	"accountkeeper/internal/account/db"
	"accountkeeper/pkg/db/redis"
	"accountkeeper/pkg/logger"
	"accountkeeper/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "ACCOUNT_LOGGER_MODE"
	EnvLoggerLevel = "ACCOUNT_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to connect to session store"
	ErrInitNotifier         = "failed to initialize notifier"
	ErrStartGRPC            = "failed to start gRPC server"
	ErrServeHTTP            = "HTTP server stopped with error"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "account service started"
	LogServiceShutdownDone = "account service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing session store"
	LogStoppingGRPC        = "stopping gRPC server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitManager         = "initializing account manager"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingGRPC        = "starting gRPC server"
)

const dependencyCheckInterval = 10 * time.Second

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitRepo)
		accountRepo := postgres.NewRepositoryFactory(database.Pool()).AccountRepository()
		sessionStore := session.NewRedisStore(redisClient.RawClient(), cfg.Redis.SessionTTL)

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(cfg.Password.BCryptCost, cfg.Password.GeneratedLength)
		passwordService := serviceFactory.PasswordService()
		mailNotifier, err := notifier.NewSMTPNotifier(cfg.SMTP.NotifierConfig())
		if err != nil {
			log.Error(ctx, ErrInitNotifier, zap.Error(err))
			closeStores(ctx, database, redisClient)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitManager)
		manager := app.NewAccountManager(accountRepo, passwordService, serviceFactory.PasswordGenerator(), mailNotifier)

		cookie := middleware.CookieConfig{
			Name:   cfg.HTTP.CookieName,
			Secure: cfg.HTTP.CookieSecure,
			TTL:    sessionStore.TTL(),
		}
		httpApp := accounthttp.NewApp(accounthttp.AppConfig{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		})
		handler := accounthttp.NewHandler(manager, passwordService, sessionStore, cookie)
		accounthttp.SetupRouter(httpApp, handler, sessionStore, cookie)

		grpcServer := grpc.New(&cfg.GRPC)
		log.Info(ctx, LogStartingGRPC)
		if err := grpcServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			closeStores(ctx, database, redisClient)
			exitCode = 1
			return
		}

		watchCtx, stopWatching := context.WithCancel(ctx)
		go grpcServer.WatchDependencies(watchCtx, dependencyCheckInterval, database.Ping, redisClient.Ping)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := httpApp.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				log.Error(ctx, ErrServeHTTP, zap.Error(err))
			}
		}()

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				if err := httpApp.ShutdownWithContext(ctx); err != nil {
					return fmt.Errorf("shutting down HTTP server: %w", err)
				}
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingGRPC)
				stopWatching()
				grpcServer.Stop(ctx)
				return nil
			},
		)

		// Хранилища закрываются после остановки серверов, которые ими пользуются.
		shutdown.Run(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				return redisClient.Close(ctx)
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// closeStores закрывает хранилища при неудачном запуске.
func closeStores(ctx context.Context, database *db.DB, redisClient *redis.Client) {
	database.Close(ctx)
	if err := redisClient.Close(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, LogClosingRedis, zap.Error(err))
	}
}
