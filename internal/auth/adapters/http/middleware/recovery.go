package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/pkg/logger"
)

// NewRecoveryMiddleware превращает панику обработчика в ответ 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Context()
				log := logger.Log(ctx)
				log.Error(ctx, "Server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				if sendErr := c.Status(fiber.StatusInternalServerError).JSON(gateResponse{Message: MsgInternal}); sendErr != nil {
					log.Error(ctx, "Failed to send error response after panic", zap.Error(sendErr))
					err = sendErr
				}
			}
		}()

		return c.Next()
	}
}
