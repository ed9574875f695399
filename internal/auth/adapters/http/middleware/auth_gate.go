// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/observability"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Ответы шлюза.
const (
	MsgNotLoggedIn   = "User not log in"
	MsgTokenRequired = "Token is required or expired"
	MsgBlacklisted   = "Token is blacklisted"
	MsgInvalidToken  = "Invalid token"
	MsgInternal      = "Internal server error"

	LogGateDenied        = "auth gate denied request"
	LogGateStoreFailure  = "failed to check revoked tokens"
	HeaderAuthorization  = "Authorization"
	undefinedBearerToken = "undefined"
)

type localsKey int

const (
	claimsKey localsKey = iota
	accessTokenKey
)

type gateResponse struct {
	Message string `json:"message"`
}

// NewAuthGate пропускает запрос только с действующим, не отозванным access-токеном.
// Проверки идут в порядке: наличие токена, черный список, подпись и срок.
func NewAuthGate(sessions repositories.SessionStore, tokens svc.TokenService, metrics *observability.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()
		log := logger.Log(ctx).With(zap.String("middleware", "auth_gate"))

		deny := func(decision, message string, fields ...zap.Field) error {
			metrics.ObserveGate(decision)
			log.Debug(ctx, LogGateDenied, append(fields, zap.String("decision", decision))...)
			return c.Status(fiber.StatusForbidden).JSON(gateResponse{Message: message})
		}

		header := c.Get(HeaderAuthorization)
		if header == "" {
			return deny(observability.GateUnauthenticated, MsgNotLoggedIn)
		}

		_, token, _ := strings.Cut(header, " ")
		if token == "" {
			return deny(observability.GateUnauthenticated, MsgTokenRequired)
		}
		if token == undefinedBearerToken {
			return deny(observability.GateUnauthenticated, MsgNotLoggedIn)
		}

		revoked, err := sessions.IsRevoked(ctx, token)
		if err != nil {
			metrics.ObserveGate(observability.GateError)
			log.Error(ctx, LogGateStoreFailure, zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(gateResponse{Message: MsgInternal})
		}
		if revoked {
			return deny(observability.GateRevoked, MsgBlacklisted)
		}

		claims, err := tokens.VerifyAccessToken(ctx, token)
		if err != nil {
			return deny(observability.GateInvalidToken, MsgInvalidToken, zap.Error(err))
		}

		metrics.ObserveGate(observability.GateAllowed)
		c.Locals(claimsKey, claims)
		c.Locals(accessTokenKey, token)
		return c.Next()
	}
}

// Claims возвращает claims, сохраненные шлюзом, или nil.
func Claims(c fiber.Ctx) *services.JWTClaims {
	claims, _ := c.Locals(claimsKey).(*services.JWTClaims)
	return claims
}

// AccessToken возвращает предъявленный access-токен или пустую строку.
func AccessToken(c fiber.Ctx) string {
	token, _ := c.Locals(accessTokenKey).(string)
	return token
}
