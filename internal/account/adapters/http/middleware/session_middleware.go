package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	svc "accountkeeper/internal/account/ports/services"
	"accountkeeper/pkg/logger"
)

const sessionLocalsKey = "accountSession"

// CookieConfig описывает cookie с идентификатором сессии.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// NewSessionMiddleware связывает запрос с сессией из cookie.
// Если обработчик создал новую сессию и ответ успешен, cookie обновляется.
func NewSessionMiddleware(store svc.SessionStore, cookie CookieConfig) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		sessionID := ctx.Cookies(cookie.Name)
		requestSession := store.Context(sessionID)
		ctx.Locals(sessionLocalsKey, requestSession)

		err := ctx.Next()

		newID := requestSession.ID()
		if err == nil && newID != "" && newID != sessionID && ctx.Response().StatusCode() < fiber.StatusBadRequest {
			logger.Log(ctx.Context()).Debug(ctx.Context(), "issuing session cookie", zap.String("sessionID", newID))
			SetSessionCookie(ctx, cookie, newID)
		}

		return err
	}
}

// Session возвращает сессию запроса, установленную NewSessionMiddleware.
func Session(ctx fiber.Ctx) svc.RequestSession {
	session, _ := ctx.Locals(sessionLocalsKey).(svc.RequestSession)
	return session
}

// SetSessionCookie записывает cookie сессии.
func SetSessionCookie(ctx fiber.Ctx, cookie CookieConfig, sessionID string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(cookie.TTL.Seconds()),
		Secure:   cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie сессии на стороне клиента.
func ClearSessionCookie(ctx fiber.Ctx, cookie CookieConfig) {
	ctx.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
