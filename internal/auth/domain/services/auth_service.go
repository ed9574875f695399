package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrMissingCredentials    = errors.New("email and password are required")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthenticated       = errors.New("user is not logged in")
	ErrRevokedToken          = errors.New("token is blacklisted")
	ErrNoRefreshToken        = errors.New("refresh token is required")
	ErrRefreshTokenRotated   = errors.New("refresh token was replaced concurrently")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// TokenPair - пара выданных токенов.
type TokenPair struct {
	UserID                int64
	Email                 string
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
}
