package services

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidToken объединяет все причины отказа в проверке токена.
var ErrInvalidToken = errors.New("invalid token")

// Причины отказа. Каждая оборачивает ErrInvalidToken.
var (
	ErrMalformedToken   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrSignatureInvalid = fmt.Errorf("%w: signature is invalid", ErrInvalidToken)
	ErrExpiredToken     = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// ErrGeneratingJWTToken - ошибка подписи.
var ErrGeneratingJWTToken = errors.New("failed to generate JWT token")

// TokenType различает access и refresh токены.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Стандартные сроки жизни.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// JWTConfig содержит ключи и сроки жизни токенов.
type JWTConfig struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Identity - данные пользователя, которые попадают в токен.
type Identity struct {
	UserID int64
	Email  string
}

// JWTClaims - расшифрованное содержимое токена.
type JWTClaims struct {
	ID        string
	UserID    int64
	Email     string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity возвращает данные пользователя из claims.
func (c *JWTClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}
