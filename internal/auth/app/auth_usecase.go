package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

const (
	methodRegister       = "Register"
	methodLogin          = "Login"
	methodRefresh        = "Refresh"
	methodLogout         = "Logout"
	methodGenerateTokens = "generateTokenPair"

	msgStartRegistration   = "starting user registration"
	msgMissingCredentials  = "email or password is missing"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgNoRefreshHeld       = "no refresh token held"
	msgRefreshRejected     = "held refresh token rejected"
	msgRefreshRaced        = "refresh slot changed during rotation"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"
	msgTokenPairGenerated  = "token pair generated successfully"

	msgErrCheckExistingUser   = "failed to check existing user"
	msgErrHashPassword        = "failed to hash password"
	msgErrCreateUser          = "failed to create user"
	msgErrFindingUser         = "error finding user by email"
	msgErrVerifyingPassword   = "error verifying password"
	msgErrReadingRefresh      = "failed to read refresh slot"
	msgErrRotatingRefresh     = "failed to rotate refresh token"
	msgErrRevokingToken       = "failed to revoke access token"
	msgErrClearingRefresh     = "failed to clear refresh slot"
	msgErrGenerateAccessToken = "failed to generate access token"
	msgErrGenerateRefresh     = "failed to generate refresh token"
	msgErrStoreRefreshToken   = "failed to store refresh token"

	errCtxValidatingInput        = "validating credentials"
	errCtxCheckingUser           = "checking existing user"
	errCtxEmailRegistered        = "email already registered"
	errCtxHashingPassword        = "hashing password"
	errCtxCreatingUser           = "creating user"
	errCtxFindingUser            = "finding user"
	errCtxVerifyingPassword      = "verifying password"
	errCtxReadingRefresh         = "reading refresh slot"
	errCtxVerifyingRefresh       = "verifying refresh token"
	errCtxRotatingRefresh        = "rotating refresh token"
	errCtxRevokingToken          = "revoking token"
	errCtxClearingRefresh        = "clearing refresh slot"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringRefreshToken    = "storing refresh token"
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	sessions    repositories.SessionStore
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает сервис аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	sessions repositories.SessionStore,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		sessions:    sessions,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// Register создает учетную запись. Токены не выдаются.
func (a *AuthUseCaseImpl) Register(ctx context.Context, email, password string) error {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if email == "" || password == "" {
		log.Debug(ctx, msgMissingCredentials)
		return fmt.Errorf("%s: %w", errCtxValidatingInput, services.ErrMissingCredentials)
	}

	existingUser, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgEmailExists)
		return fmt.Errorf("%s: %w", errCtxEmailRegistered, entities.ErrEmailAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	// Параллельная регистрация того же email отсекается ограничением UNIQUE.
	created, err := a.userRepo.Create(ctx, &entities.User{Email: email, PasswordHash: hashedPassword})
	if err != nil {
		if errors.Is(err, entities.ErrEmailAlreadyExists) {
			log.Debug(ctx, msgEmailExists)
			return fmt.Errorf("%s: %w", errCtxEmailRegistered, err)
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.Int64("userID", created.ID))
	return nil
}

// Login проверяет учетные данные, выдает пару токенов и занимает слот refresh-токена.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	if email == "" || password == "" {
		log.Debug(ctx, msgMissingCredentials)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingInput, services.ErrMissingCredentials)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgInvalidPasswordAuth)
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, services.ErrInvalidCredentials)
	}

	pair, err := a.generateTokenPair(ctx, services.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}

	// Слот один на весь процесс: вход другого пользователя вытесняет предыдущий refresh-токен.
	if err := a.sessions.SetRefresh(ctx, pair.RefreshToken); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefreshToken, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.Int64("userID", user.ID))
	return pair, nil
}

// Logout отзывает access-токен и очищает слот refresh-токена.
// Токен не проверяется: отозвать можно и просроченный.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, accessToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	if accessToken == "" {
		return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrUnauthenticated)
	}

	if err := a.sessions.Revoke(ctx, accessToken); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	if err := a.sessions.ClearRefresh(ctx); err != nil {
		log.Error(ctx, msgErrClearingRefresh, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxClearingRefresh, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// Refresh выдает новую пару по refresh-токену из слота.
// Ранее выданные access-токены остаются действительными до истечения срока.
func (a *AuthUseCaseImpl) Refresh(ctx context.Context) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefresh))
	log.Debug(ctx, msgRefreshingTokens)

	held, err := a.sessions.GetRefresh(ctx)
	if err != nil {
		log.Error(ctx, msgErrReadingRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxReadingRefresh, err)
	}
	if held == "" {
		log.Debug(ctx, msgNoRefreshHeld)
		return nil, fmt.Errorf("%s: %w", errCtxReadingRefresh, services.ErrNoRefreshToken)
	}

	claims, err := a.tokenSvc.VerifyRefreshToken(ctx, held)
	if err != nil {
		log.Debug(ctx, msgRefreshRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingRefresh, err)
	}

	pair, err := a.generateTokenPair(ctx, claims.Identity())
	if err != nil {
		return nil, err
	}

	swapped, err := a.sessions.ReplaceRefresh(ctx, held, pair.RefreshToken)
	if err != nil {
		log.Error(ctx, msgErrRotatingRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRotatingRefresh, err)
	}
	if !swapped {
		log.Debug(ctx, msgRefreshRaced)
		return nil, fmt.Errorf("%s: %w", errCtxRotatingRefresh, services.ErrRefreshTokenRotated)
	}

	log.Info(ctx, msgTokensRefreshed, zap.Int64("userID", claims.UserID))
	return pair, nil
}

func (a *AuthUseCaseImpl) generateTokenPair(ctx context.Context, identity services.Identity) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGenerateTokens), zap.Int64("userID", identity.UserID))

	accessToken, accessExpiresAt, err := a.tokenSvc.IssueAccessToken(ctx, identity)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed, err)
	}

	refreshToken, refreshExpiresAt, err := a.tokenSvc.IssueRefreshToken(ctx, identity)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed, err)
	}

	log.Debug(ctx, msgTokenPairGenerated)
	return &services.TokenPair{
		UserID:                identity.UserID,
		Email:                 identity.Email,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}
