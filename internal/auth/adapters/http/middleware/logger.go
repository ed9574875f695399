package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/observability"
	"authgate/pkg/logger"
)

// NewLoggerMiddleware логирует запросы и учитывает их в метриках.
func NewLoggerMiddleware(metrics *observability.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()
		start := time.Now()

		log := logger.Log(ctx).With(
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
		)
		log.Debug(ctx, "Request started")

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.ObserveRequest(c.Route().Path, status, latency)

		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}
		if err != nil {
			log.Error(ctx, "Request failed", append(fields, zap.Error(err))...)
			return err
		}

		log.Info(ctx, "Request completed", fields...)
		return nil
	}
}
