package http

import (
	"github.com/gofiber/fiber/v3"

	"accountkeeper/internal/account/adapters/http/middleware"
	svc "accountkeeper/internal/account/ports/services"
)

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(app *fiber.App, handler *Handler, sessions svc.SessionStore, cookie middleware.CookieConfig) {
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiV1 := app.Group("/api/v1")
	apiV1.Use(middleware.NewSessionMiddleware(sessions, cookie))

	apiV1.Post("/accounts", handler.Register)
	apiV1.Delete("/accounts/:id", handler.DeleteAccount)

	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", handler.Login)
	authRoutes.Post("/logout", handler.Logout)
	authRoutes.Post("/password/reset", handler.ResetPassword)

	apiV1.Get("/account", handler.GetAccount)
	apiV1.Put("/account/password", handler.ChangePassword)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "route not found",
		})
	})
}
