// Package config содержит конфигурацию сервиса учетных записей.
package config

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	pkgconfig "accountkeeper/pkg/config"
	"accountkeeper/pkg/logger"
)

// ServiceName - имя сервиса в журналах.
const ServiceName = "account"

// PathEnv - переменная окружения с путем к файлу конфигурации.
const PathEnv = "ACCOUNT_CONFIG_PATH"

const errFailedLoadConfig = "failed to load account service configuration"

// Config представляет полную конфигурацию сервиса.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Password PasswordConfig `yaml:"password"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

// Load загружает конфигурацию из переменных окружения и файла из ACCOUNT_CONFIG_PATH, если он задан.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, os.Getenv(PathEnv))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfig, err)
	}

	logger.Log(ctx).Info(ctx, "account service configuration",
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("bcrypt_cost", cfg.Password.BCryptCost),
		zap.String("smtp_address", cfg.SMTP.GetAddress()))

	return cfg, nil
}
