package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/services"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

const (
	methodIssueAccessToken   = "IssueAccessToken"
	methodIssueRefreshToken  = "IssueRefreshToken"
	methodVerifyAccessToken  = "VerifyAccessToken"
	methodVerifyRefreshToken = "VerifyRefreshToken"

	msgIssuingToken    = "issuing token"
	msgTokenIssued     = "token issued successfully"
	msgVerifyingToken  = "verifying token"
	msgTokenVerified   = "token verified successfully"
	msgTokenRejected   = "token rejected"
	msgEmptySecret     = "empty secret key provided"
	errSigningToken    = "error signing token" //nolint:gosec
	errCtxIssuingToken = "issuing token"
	errCtxVerifying    = "verifying token"
)

// ErrInvalidAlgorithm - токен подписан не HMAC.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims - представление claims для библиотеки JWT.
type Claims struct {
	UserID int64              `json:"user_id"`
	Email  string             `json:"email"`
	Type   services.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// JWTOption настраивает ServiceJWT.
type JWTOption func(*ServiceJWT)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) JWTOption {
	return func(s *ServiceJWT) {
		s.now = now
	}
}

// ServiceJWT подписывает access и refresh токены разными ключами (HS256).
type ServiceJWT struct {
	config services.JWTConfig
	now    func() time.Time
}

// NewJWT создает сервис токенов.
func NewJWT(accessSecret, refreshSecret string, accessTokenTTL, refreshTokenTTL time.Duration, opts ...JWTOption) svc.TokenService {
	s := &ServiceJWT{
		config: services.JWTConfig{
			AccessSecret:    []byte(accessSecret),
			RefreshSecret:   []byte(refreshSecret),
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueAccessToken выпускает access-токен.
func (s *ServiceJWT) IssueAccessToken(ctx context.Context, identity services.Identity) (string, time.Time, error) {
	return s.issue(ctx, methodIssueAccessToken, identity, services.AccessToken, s.config.AccessSecret, s.config.AccessTokenTTL)
}

// IssueRefreshToken выпускает refresh-токен.
func (s *ServiceJWT) IssueRefreshToken(ctx context.Context, identity services.Identity) (string, time.Time, error) {
	return s.issue(ctx, methodIssueRefreshToken, identity, services.RefreshToken, s.config.RefreshSecret, s.config.RefreshTokenTTL)
}

// VerifyAccessToken проверяет access-токен.
func (s *ServiceJWT) VerifyAccessToken(ctx context.Context, token string) (*services.JWTClaims, error) {
	return s.verify(ctx, methodVerifyAccessToken, token, services.AccessToken, s.config.AccessSecret)
}

// VerifyRefreshToken проверяет refresh-токен.
func (s *ServiceJWT) VerifyRefreshToken(ctx context.Context, token string) (*services.JWTClaims, error) {
	return s.verify(ctx, methodVerifyRefreshToken, token, services.RefreshToken, s.config.RefreshSecret)
}

func (s *ServiceJWT) issue(
	ctx context.Context,
	method string,
	identity services.Identity,
	typ services.TokenType,
	secret []byte,
	ttl time.Duration,
) (string, time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.Int64("userID", identity.UserID))
	log.Debug(ctx, msgIssuingToken)

	if len(secret) == 0 {
		log.Error(ctx, msgEmptySecret)
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxIssuingToken, services.ErrGeneratingJWTToken)
	}

	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenIssued, zap.Time("expiresAt", expiresAt))
	return signed, claims.ExpiresAt.Time, nil
}

func (s *ServiceJWT) verify(
	ctx context.Context,
	method, token string,
	typ services.TokenType,
	secret []byte,
) (*services.JWTClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", method))
	log.Debug(ctx, msgVerifyingToken)

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		reason := classify(err)
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifying, reason)
	}

	if claims.Type != typ {
		log.Debug(ctx, msgTokenRejected, zap.String("typ", string(claims.Type)))
		return nil, fmt.Errorf("%s: %w: unexpected token type %q", errCtxVerifying, services.ErrSignatureInvalid, claims.Type)
	}

	log.Debug(ctx, msgTokenVerified, zap.Int64("userID", claims.UserID))
	return toDomainClaims(claims), nil
}

// classify сводит ошибки библиотеки к трем причинам отказа.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return services.ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenMalformed):
		return services.ErrMalformedToken
	default:
		return services.ErrSignatureInvalid
	}
}

func toDomainClaims(c *Claims) *services.JWTClaims {
	out := &services.JWTClaims{
		ID:     c.RegisteredClaims.ID,
		UserID: c.UserID,
		Email:  c.Email,
		Type:   c.Type,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
