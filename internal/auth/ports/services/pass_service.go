package services

import "context"

// PasswordService определяет операции с паролями.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	// Verify возвращает false для несовпадающего или поврежденного хэша.
	Verify(ctx context.Context, password, hash string) (bool, error)
}
