package api

import (
	"context"

	"authgate/internal/auth/domain/entities"
)

// UserUseCase определяет порт для доступа к защищенным данным пользователя.
type UserUseCase interface {
	GetUserProfile(ctx context.Context, userID int64) (*entities.User, error)
}
