package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"authgate/internal/auth/adapters/http/middleware"
	"authgate/internal/auth/observability"
	"authgate/internal/auth/ports/repositories"
	"authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Dependencies - все, что нужно маршрутам.
type Dependencies struct {
	Handler  *Handler
	Sessions repositories.SessionStore
	Tokens   services.TokenService
	Metrics  *observability.Metrics
	Logger   *logger.Logger

	// AllowOrigins - источники для CORS. Пустой список разрешает любой.
	AllowOrigins []string
}

// SetupRouter настраивает маршруты.
func SetupRouter(app *fiber.App, deps Dependencies) {
	h := deps.Handler

	app.Use(middleware.NewRequestIDMiddleware(deps.Logger))
	app.Use(middleware.NewLoggerMiddleware(deps.Metrics))
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(newCORS(deps.AllowOrigins))

	// Защищенные маршруты.
	app.Use(protectedPaths, middleware.NewAuthGate(deps.Sessions, deps.Tokens, deps.Metrics))

	app.Get("/", h.Root)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	app.Post("/refresh", h.Refresh)
	app.Get("/protect", h.Protect)

	app.Use(notFound())
}

// Браузер должен видеть выданный access-токен в заголовке ответа.
var exposedHeaders = []string{fiber.HeaderAuthorization, middleware.HeaderRequestID}

func newCORS(origins []string) fiber.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		ExposeHeaders: exposedHeaders,
	})
}

var protectedPaths = []string{"/logout", "/refresh", "/protect"}

func notFound() fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: MsgRouteNotFound})
	}
}
