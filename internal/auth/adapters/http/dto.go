package http

import "authgate/internal/auth/domain/entities"

// CredentialsRequest - тело /register и /login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse - ответ с одним сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse - ответ /login и /refresh. Access-токен передается в заголовке Authorization.
type TokenResponse struct {
	Message      string `json:"message"`
	RefreshToken string `json:"refreshToken"`
}

// ProtectResponse - ответ защищенного маршрута.
type ProtectResponse struct {
	Message string         `json:"message"`
	User    *entities.User `json:"user"`
}
