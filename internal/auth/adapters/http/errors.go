package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/pkg/logger"
)

// Тексты ответов.
const (
	MsgRegistered       = "Create new user successfully!"
	MsgLoggedIn         = "Login Successfully!"
	MsgLoggedOut        = "Log out successfully"
	MsgRefreshed        = "Refresh token successfully"
	MsgProtected        = "Protect route accessed"
	MsgGreeting         = "Hello,world"
	MsgMissingFields    = "Email and password are required"
	MsgEmailUsed        = "Email is already used"
	MsgUserNotFound     = "User not found"
	MsgBadCredentials   = "Invalid credentials"
	MsgRefreshRequired  = "Refresh token is required"
	MsgNotLoggedIn      = "User not log in"
	MsgRefreshInvalid   = "Token is invalid"
	MsgInvalidBody      = "Invalid request body"
	MsgRouteNotFound    = "Route not found"
	MsgInternal         = "Internal server error"
	LogRequestFailed    = "request failed"
	LogUnexpectedError  = "unexpected error while serving request"
	LogResponseFailed   = "failed to send error response"
	LogFrameworkFailure = "framework error"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// Порядок важен: более конкретные ошибки раньше общих.
var errorMappings = []errorMapping{
	{services.ErrMissingCredentials, fiber.StatusBadRequest, MsgMissingFields},
	{entities.ErrEmailAlreadyExists, fiber.StatusBadRequest, MsgEmailUsed},
	{entities.ErrUserNotFound, fiber.StatusBadRequest, MsgUserNotFound},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, MsgBadCredentials},
	{services.ErrNoRefreshToken, fiber.StatusUnauthorized, MsgRefreshRequired},
	{services.ErrUnauthenticated, fiber.StatusForbidden, MsgNotLoggedIn},
	{services.ErrRefreshTokenRotated, fiber.StatusForbidden, MsgRefreshInvalid},
	{services.ErrInvalidToken, fiber.StatusForbidden, MsgRefreshInvalid},
}

// respondError переводит ошибку сценария в статус и сообщение.
// Неизвестные ошибки логируются и отдаются клиенту без подробностей.
func respondError(c fiber.Ctx, err error) error {
	ctx := c.Context()

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			logger.Log(ctx).Debug(ctx, LogRequestFailed, zap.Int("status", m.status), zap.Error(err))
			return c.Status(m.status).JSON(MessageResponse{Message: m.message})
		}
	}

	logger.Log(ctx).Error(ctx, LogUnexpectedError, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(MessageResponse{Message: MsgInternal})
}

// ErrorHandler обрабатывает ошибки, которые вернули обработчики или сам fiber.
func ErrorHandler(c fiber.Ctx, err error) error {
	ctx := c.Context()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		logger.Log(ctx).Debug(ctx, LogFrameworkFailure, zap.Int("status", fe.Code), zap.Error(err))
		return c.Status(fe.Code).JSON(MessageResponse{Message: fe.Message})
	}

	if sendErr := respondError(c, err); sendErr != nil {
		logger.Log(ctx).Error(ctx, LogResponseFailed, zap.Error(sendErr))
		return sendErr
	}
	return nil
}
