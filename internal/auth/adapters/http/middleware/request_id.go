package middleware

import (
	"github.com/gofiber/fiber/v3"

	"authgate/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware кладет в контекст запроса логгер и идентификатор запроса.
// Идентификатор берется из заголовка или генерируется и возвращается клиенту.
func NewRequestIDMiddleware(log *logger.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := logger.NewRequestIDContext(c.Context(), c.Get(HeaderRequestID))
		if log != nil {
			ctx = logger.NewContext(ctx, log)
		}
		c.SetContext(ctx)

		if id, ok := logger.GetRequestID(ctx); ok {
			c.Set(HeaderRequestID, id)
		}
		return c.Next()
	}
}
