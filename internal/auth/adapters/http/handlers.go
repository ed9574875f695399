package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/adapters/http/middleware"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/api"
	"authgate/pkg/logger"
)

const (
	LogHandlerRegister = "auth handler: register"
	LogHandlerLogin    = "auth handler: login"
	LogHandlerLogout   = "auth handler: logout"
	LogHandlerRefresh  = "auth handler: refresh" // #nosec G101 - not a credential
	LogHandlerProtect  = "auth handler: protect"
	LogInvalidBody     = "invalid request body"

	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// Handler содержит HTTP обработчики сервиса.
type Handler struct {
	auth  api.AuthUseCase
	users api.UserUseCase
}

// NewHandler создает обработчик.
func NewHandler(auth api.AuthUseCase, users api.UserUseCase) *Handler {
	return &Handler{auth: auth, users: users}
}

// Root отвечает приветствием.
func (h *Handler) Root(c fiber.Ctx) error {
	return c.SendString(MsgGreeting)
}

// Register создает учетную запись.
func (h *Handler) Register(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerRegister)

	req, err := bindCredentials(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: MsgInvalidBody})
	}

	if err := h.auth.Register(ctx, req.Email, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{Message: MsgRegistered})
}

// Login выдает пару токенов.
func (h *Handler) Login(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerLogin)

	req, err := bindCredentials(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: MsgInvalidBody})
	}

	pair, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(headerAuthorization, bearerPrefix+pair.AccessToken)
	return c.Status(fiber.StatusOK).JSON(TokenResponse{Message: MsgLoggedIn, RefreshToken: pair.RefreshToken})
}

// Logout отзывает предъявленный access-токен.
func (h *Handler) Logout(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerLogout)

	if err := h.auth.Logout(ctx, middleware.AccessToken(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: MsgLoggedOut})
}

// Refresh меняет refresh-токен из слота на новую пару.
func (h *Handler) Refresh(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerRefresh)

	pair, err := h.auth.Refresh(ctx)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(headerAuthorization, bearerPrefix+pair.AccessToken)
	return c.Status(fiber.StatusOK).JSON(TokenResponse{Message: MsgRefreshed, RefreshToken: pair.RefreshToken})
}

// Protect возвращает запись владельца токена.
func (h *Handler) Protect(c fiber.Ctx) error {
	ctx := c.Context()

	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusForbidden).JSON(MessageResponse{Message: MsgNotLoggedIn})
	}
	logger.Log(ctx).Debug(ctx, LogHandlerProtect, zap.Int64("userID", claims.UserID))

	user, err := h.users.GetUserProfile(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: MsgUserNotFound})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ProtectResponse{Message: MsgProtected, User: user})
}

// bindCredentials разбирает тело. Пустое тело равносильно пустым полям.
func bindCredentials(c fiber.Ctx) (CredentialsRequest, error) {
	var req CredentialsRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := c.Bind().JSON(&req); err != nil {
		ctx := c.Context()
		logger.Log(ctx).Debug(ctx, LogInvalidBody, zap.Error(err))
		return req, err
	}
	return req, nil
}
