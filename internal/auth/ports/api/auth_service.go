package api

import (
	"context"

	"authgate/internal/auth/domain/services"
)

// AuthUseCase определяет основной порт для операций аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, email, password string) error

	Login(ctx context.Context, email, password string) (*services.TokenPair, error)

	Logout(ctx context.Context, accessToken string) error

	Refresh(ctx context.Context) (*services.TokenPair, error)
}
