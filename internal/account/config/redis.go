package config

import (
	"net"
	"strconv"
	"time"

	"accountkeeper/pkg/db/redis"
)

// RedisConfig представляет конфигурацию Redis, в котором хранятся сессии.
type RedisConfig struct {
	Host       string        `yaml:"host" env:"ACCOUNT_REDIS_HOST" env-default:"localhost"`
	Port       int           `yaml:"port" env:"ACCOUNT_REDIS_PORT" env-default:"6379"`
	Password   string        `yaml:"password" env:"ACCOUNT_REDIS_PASSWORD" env-default:""`
	DB         int           `yaml:"db" env:"ACCOUNT_REDIS_DB" env-default:"0"`
	PoolSize   int           `yaml:"pool_size" env:"ACCOUNT_REDIS_POOL_SIZE" env-default:"10"`
	Timeout    time.Duration `yaml:"timeout" env:"ACCOUNT_REDIS_TIMEOUT" env-default:"3s"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"ACCOUNT_SESSION_TTL" env-default:"30m"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ClientConfig преобразует настройки в конфигурацию клиента Redis.
func (c *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
		Timeout:  c.Timeout,
	}
}
