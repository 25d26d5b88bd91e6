package http

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"accountkeeper/internal/account/adapters/http/dto"
)

// AppConfig содержит таймауты HTTP сервера.
type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewApp создает приложение Fiber с проверкой тел запросов.
func NewApp(cfg AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:         "accountkeeper",
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		StructValidator: dto.NewStructValidator(),
	})
}
