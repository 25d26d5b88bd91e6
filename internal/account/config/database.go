package config

import (
	"fmt"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host           string `yaml:"host" env:"ACCOUNT_POSTGRES_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"ACCOUNT_POSTGRES_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"ACCOUNT_POSTGRES_USER" env-default:"postgres"`
	Password       string `yaml:"password" env:"ACCOUNT_POSTGRES_PASSWORD" env-default:"postgres"`
	Database       string `yaml:"database" env:"ACCOUNT_POSTGRES_DB" env-default:"accounts"`
	SSLMode        string `yaml:"ssl_mode" env:"ACCOUNT_POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn        int    `yaml:"min_conn" env:"ACCOUNT_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn        int    `yaml:"max_conn" env:"ACCOUNT_POSTGRES_MAX_CONN" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"ACCOUNT_POSTGRES_MIGRATIONS_PATH" env-default:"migrations/account"`
}

// GetDSN возвращает строку подключения к PostgreSQL.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}
