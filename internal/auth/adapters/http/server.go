// Package http предоставляет HTTP сервер сервиса аутентификации на fiber.
package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/config"
	"authgate/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "Starting HTTP server"
	LogServerStopping = "Stopping HTTP server"
	LogServerStopped  = "HTTP server stopped"
	ErrServerStart    = "failed to start HTTP server"
	ErrServerStop     = "failed to stop HTTP server"
)

// Server представляет HTTP сервер.
type Server struct {
	cfg *config.HTTPConfig
	app *fiber.App
}

// New создает сервер и регистрирует маршруты.
func New(cfg *config.HTTPConfig, deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "authgate",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	if deps.AllowOrigins == nil {
		deps.AllowOrigins = cfg.CORSAllowOrigins
	}
	SetupRouter(app, deps)

	return &Server{cfg: cfg, app: app}
}

// App возвращает приложение fiber.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start запускает прием соединений в отдельной горутине.
// Ошибка Listen отправляется в возвращаемый канал.
func (s *Server) Start(ctx context.Context) <-chan error {
	log := logger.Log(ctx)
	address := s.cfg.GetAddress()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
			errCh <- fmt.Errorf("%s: %w", ErrServerStart, err)
		}
	}()

	return errCh
}

// Stop дожидается завершения активных запросов или истечения ctx.
func (s *Server) Stop(ctx context.Context) error {
	log := logger.Log(ctx)

	log.Info(ctx, LogServerStopping)
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		log.Error(ctx, ErrServerStop, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStop, err)
	}
	log.Info(ctx, LogServerStopped)
	return nil
}
