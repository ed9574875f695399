package services

import (
	"context"
	"time"

	"authgate/internal/auth/domain/services"
)

// TokenService выпускает и проверяет JWT.
type TokenService interface {
	IssueAccessToken(ctx context.Context, identity services.Identity) (string, time.Time, error)

	IssueRefreshToken(ctx context.Context, identity services.Identity) (string, time.Time, error)

	VerifyAccessToken(ctx context.Context, token string) (*services.JWTClaims, error)

	VerifyRefreshToken(ctx context.Context, token string) (*services.JWTClaims, error)
}
