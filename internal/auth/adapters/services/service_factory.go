// Package services содержит реализации хэширования паролей и работы с JWT.
package services

import (
	"time"

	"authgate/internal/auth/ports/services"
)

// ServiceFactory создает сервисы паролей и токенов.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(
	accessSecret, refreshSecret string,
	accessTokenTTL, refreshTokenTTL time.Duration,
	bcryptCost, hashConcurrency int,
) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost, hashConcurrency),
		tokenService:    NewJWT(accessSecret, refreshSecret, accessTokenTTL, refreshTokenTTL),
	}
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис токенов.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}
