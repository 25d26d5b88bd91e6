package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"accountkeeper/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware кладет идентификатор запроса в контекст и возвращает его в ответе.
// Идентификатор берется из заголовка запроса, если это UUID, иначе генерируется.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), clientRequestID(ctx.Get(HeaderRequestID)))
		ctx.SetContext(requestCtx)

		if id, ok := logger.GetRequestID(requestCtx); ok {
			ctx.Set(HeaderRequestID, id)
		}

		return ctx.Next()
	}
}

// clientRequestID возвращает пустую строку для значений, которые нельзя писать в журнал как есть.
func clientRequestID(value string) string {
	if len(value) != len(uuid.Nil.String()) {
		return ""
	}
	if _, err := uuid.Parse(value); err != nil {
		return ""
	}
	return value
}
