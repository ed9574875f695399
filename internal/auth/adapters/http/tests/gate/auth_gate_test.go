package gate_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth/adapters/http/middleware"
	"authgate/internal/auth/adapters/services"
	"authgate/internal/auth/adapters/session"
	domainservices "authgate/internal/auth/domain/services"
	"authgate/internal/auth/observability"
	"authgate/internal/auth/ports/repositories"
)

type failingStore struct {
	repositories.SessionStore
}

func (failingStore) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis unavailable")
}

func newApp(store repositories.SessionStore, metrics *observability.Metrics) (*fiber.App, *services.ServiceJWT) {
	tokens := services.NewJWT("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour).(*services.ServiceJWT)

	app := fiber.New()
	app.Use(middleware.NewAuthGate(store, tokens, metrics))
	app.Get("/protect", func(c fiber.Ctx) error {
		claims := middleware.Claims(c)
		return c.JSON(fiber.Map{"email": claims.Email, "token": middleware.AccessToken(c)})
	})
	return app, tokens
}

func call(t *testing.T, app *fiber.App, header string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protect", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestAuthGate(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	app, tokens := newApp(store, metrics)

	valid, _, err := tokens.IssueAccessToken(ctx, domainservices.Identity{UserID: 1, Email: "a@x.io"})
	require.NoError(t, err)
	refresh, _, err := tokens.IssueRefreshToken(ctx, domainservices.Identity{UserID: 1, Email: "a@x.io"})
	require.NoError(t, err)
	revoked, _, err := tokens.IssueAccessToken(ctx, domainservices.Identity{UserID: 1, Email: "a@x.io"})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, revoked))
	require.NoError(t, store.Revoke(ctx, "garbage-but-revoked"))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"нет заголовка", "", http.StatusForbidden, middleware.MsgNotLoggedIn},
		{"только схема", "Bearer", http.StatusForbidden, middleware.MsgTokenRequired},
		{"пустой токен", "Bearer ", http.StatusForbidden, middleware.MsgTokenRequired},
		{"токен undefined", "Bearer undefined", http.StatusForbidden, middleware.MsgNotLoggedIn},
		{"отозванный токен", "Bearer " + revoked, http.StatusForbidden, middleware.MsgBlacklisted},
		{"отзыв проверяется раньше подписи", "Bearer garbage-but-revoked", http.StatusForbidden, middleware.MsgBlacklisted},
		{"мусор вместо токена", "Bearer garbage", http.StatusForbidden, middleware.MsgInvalidToken},
		{"refresh вместо access", "Bearer " + refresh, http.StatusForbidden, middleware.MsgInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.header)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body["message"])
		})
	}

	t.Run("действующий токен", func(t *testing.T) {
		status, body := call(t, app, "Bearer "+valid)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "a@x.io", body["email"])
		assert.Equal(t, valid, body["token"])
	})

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GateDecisions.WithLabelValues(observability.GateAllowed)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.GateDecisions.WithLabelValues(observability.GateRevoked)), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.GateDecisions.WithLabelValues(observability.GateUnauthenticated)), 0)
}

func TestAuthGateStoreFailure(t *testing.T) {
	app, tokens := newApp(failingStore{}, nil)

	token, _, err := tokens.IssueAccessToken(context.Background(), domainservices.Identity{UserID: 1, Email: "a@x.io"})
	require.NoError(t, err)

	status, body := call(t, app, "Bearer "+token)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, middleware.MsgInternal, body["message"])
}
