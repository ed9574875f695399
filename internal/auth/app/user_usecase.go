package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

const (
	methodGetUserProfile = "GetUserProfile"

	msgRequestingProfile = "requesting user profile"
	msgProfileRetrieved  = "user profile successfully retrieved"

	msgErrFindingUserByID = "failed to find user by ID"

	errCtxFetchingProfile = "fetching user profile"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo repositories.UserRepository
}

// NewUserUseCase создает сервис пользователя.
func NewUserUseCase(userRepo repositories.UserRepository) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo: userRepo,
	}
}

// GetUserProfile возвращает запись пользователя вместе с хэшем пароля.
func (u *UserUseCaseImpl) GetUserProfile(ctx context.Context, userID int64) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUserProfile), zap.Int64("userID", userID))
	log.Debug(ctx, msgRequestingProfile)

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrFindingUserByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingProfile, err)
	}

	log.Info(ctx, msgProfileRetrieved)
	return user, nil
}
