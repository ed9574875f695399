package authusecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth/adapters/session"
	"authgate/internal/auth/app"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
)

var (
	storedUser = &entities.User{ID: 7, Email: "a@x.io", PasswordHash: "hashed"}
	identity   = services.Identity{UserID: 7, Email: "a@x.io"}
	expiresAt  = time.Date(2025, time.March, 1, 13, 0, 0, 0, time.UTC)
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("успешный вход занимает слот", func(t *testing.T) {
		users := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		store := session.NewMemoryStore()

		users.On("FindByEmail", ctx, "a@x.io").Return(storedUser, nil)
		passwords.On("Verify", ctx, "pw1", "hashed").Return(true, nil)
		tokens.On("IssueAccessToken", ctx, identity).Return("A1", expiresAt, nil)
		tokens.On("IssueRefreshToken", ctx, identity).Return("R1", expiresAt, nil)

		pair, err := app.NewAuthUseCase(users, store, passwords, tokens).Login(ctx, "a@x.io", "pw1")

		require.NoError(t, err)
		assert.Equal(t, "A1", pair.AccessToken)
		assert.Equal(t, "R1", pair.RefreshToken)
		assert.Equal(t, int64(7), pair.UserID)

		held, err := store.GetRefresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "R1", held)
	})

	t.Run("второй вход перезаписывает слот", func(t *testing.T) {
		users := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		store := session.NewMemoryStore()
		other := &entities.User{ID: 8, Email: "b@x.io", PasswordHash: "hashed-b"}
		otherIdentity := services.Identity{UserID: 8, Email: "b@x.io"}

		users.On("FindByEmail", ctx, "a@x.io").Return(storedUser, nil)
		users.On("FindByEmail", ctx, "b@x.io").Return(other, nil)
		passwords.On("Verify", ctx, mock.Anything, mock.Anything).Return(true, nil)
		tokens.On("IssueAccessToken", ctx, identity).Return("A1", expiresAt, nil)
		tokens.On("IssueRefreshToken", ctx, identity).Return("R1", expiresAt, nil)
		tokens.On("IssueAccessToken", ctx, otherIdentity).Return("A2", expiresAt, nil)
		tokens.On("IssueRefreshToken", ctx, otherIdentity).Return("R2", expiresAt, nil)

		uc := app.NewAuthUseCase(users, store, passwords, tokens)
		_, err := uc.Login(ctx, "a@x.io", "pw1")
		require.NoError(t, err)
		_, err = uc.Login(ctx, "b@x.io", "pw2")
		require.NoError(t, err)

		held, err := store.GetRefresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "R2", held)
	})

	t.Run("отсутствуют поля", func(t *testing.T) {
		uc := app.NewAuthUseCase(new(mockUserRepository), session.NewMemoryStore(), new(mockPasswordService), new(mockTokenService))

		_, err := uc.Login(ctx, "a@x.io", "")
		assert.ErrorIs(t, err, services.ErrMissingCredentials)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		users := new(mockUserRepository)
		users.On("FindByEmail", ctx, "nobody@x.io").Return(nil, entities.ErrUserNotFound)

		uc := app.NewAuthUseCase(users, session.NewMemoryStore(), new(mockPasswordService), new(mockTokenService))

		_, err := uc.Login(ctx, "nobody@x.io", "pw1")
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})

	t.Run("неверный пароль не трогает слот", func(t *testing.T) {
		users := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		store := session.NewMemoryStore()
		require.NoError(t, store.SetRefresh(ctx, "R0"))

		users.On("FindByEmail", ctx, "a@x.io").Return(storedUser, nil)
		passwords.On("Verify", ctx, "wrong", "hashed").Return(false, nil)

		_, err := app.NewAuthUseCase(users, store, passwords, tokens).Login(ctx, "a@x.io", "wrong")

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "IssueAccessToken", mock.Anything, mock.Anything)
		held, _ := store.GetRefresh(ctx)
		assert.Equal(t, "R0", held)
	})

	t.Run("ошибка выпуска токена", func(t *testing.T) {
		users := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)

		users.On("FindByEmail", ctx, "a@x.io").Return(storedUser, nil)
		passwords.On("Verify", ctx, "pw1", "hashed").Return(true, nil)
		tokens.On("IssueAccessToken", ctx, identity).Return("", time.Time{}, services.ErrGeneratingJWTToken)

		_, err := app.NewAuthUseCase(users, session.NewMemoryStore(), passwords, tokens).Login(ctx, "a@x.io", "pw1")

		assert.ErrorIs(t, err, services.ErrTokenGenerationFailed)
		assert.ErrorIs(t, err, services.ErrGeneratingJWTToken)
	})

	t.Run("ошибка записи слота", func(t *testing.T) {
		users := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		store := new(mockSessionStore)
		storeErr := errors.New("redis unavailable")

		users.On("FindByEmail", ctx, "a@x.io").Return(storedUser, nil)
		passwords.On("Verify", ctx, "pw1", "hashed").Return(true, nil)
		tokens.On("IssueAccessToken", ctx, identity).Return("A1", expiresAt, nil)
		tokens.On("IssueRefreshToken", ctx, identity).Return("R1", expiresAt, nil)
		store.On("SetRefresh", ctx, "R1").Return(storeErr)

		_, err := app.NewAuthUseCase(users, store, passwords, tokens).Login(ctx, "a@x.io", "pw1")

		assert.ErrorIs(t, err, storeErr)
	})
}
