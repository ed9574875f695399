package repositories

import (
	"context"

	"authgate/internal/auth/domain/entities"
)

// UserRepository - хранилище учетных данных.
//
// Create возвращает entities.ErrEmailAlreadyExists при нарушении уникальности email.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id int64) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}
