package config

import (
	"net"
	"strconv"
	"time"

	"accountkeeper/internal/account/adapters/notifier"
)

// SMTPConfig содержит настройки почтового сервера для доставки новых паролей.
type SMTPConfig struct {
	Host       string        `yaml:"host" env:"ACCOUNT_SMTP_HOST" env-default:"localhost"`
	Port       int           `yaml:"port" env:"ACCOUNT_SMTP_PORT" env-default:"25"`
	Username   string        `yaml:"username" env:"ACCOUNT_SMTP_USERNAME" env-default:""`
	Password   string        `yaml:"password" env:"ACCOUNT_SMTP_PASSWORD" env-default:""`
	From       string        `yaml:"from" env:"ACCOUNT_SMTP_FROM" env-default:"noreply@localhost"`
	Subject    string        `yaml:"subject" env:"ACCOUNT_SMTP_SUBJECT" env-default:"Your new password"`
	MaxRetries uint64        `yaml:"max_retries" env:"ACCOUNT_SMTP_MAX_RETRIES" env-default:"3"`
	RetryBase  time.Duration `yaml:"retry_base" env:"ACCOUNT_SMTP_RETRY_BASE" env-default:"200ms"`
}

// GetAddress возвращает адрес почтового сервера.
func (c *SMTPConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NotifierConfig преобразует настройки в конфигурацию notifier.
func (c *SMTPConfig) NotifierConfig() notifier.Config {
	return notifier.Config{
		Host:       c.Host,
		Port:       c.Port,
		Username:   c.Username,
		Password:   c.Password,
		From:       c.From,
		Subject:    c.Subject,
		MaxRetries: c.MaxRetries,
		RetryBase:  c.RetryBase,
	}
}
