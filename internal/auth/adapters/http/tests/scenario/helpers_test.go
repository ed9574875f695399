package scenario_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authhttp "authgate/internal/auth/adapters/http"
	"authgate/internal/auth/adapters/services"
	"authgate/internal/auth/adapters/session"
	"authgate/internal/auth/app"
	"authgate/internal/auth/config"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/observability"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// memoryUsers - хранилище учетных данных для сценариев.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*entities.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*entities.User)}
}

func (r *memoryUsers) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, entities.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	created := &entities.User{ID: r.nextID, Email: user.Email, PasswordHash: user.PasswordHash, CreatedAt: time.Now().UTC()}
	r.byID[created.ID] = created
	return created, nil
}

func (r *memoryUsers) FindByID(_ context.Context, id int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUsers) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	app      *fiber.App
	users    *memoryUsers
	sessions repositories.SessionStore
	clock    *clock
	metrics  *observability.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithConfig(t, config.HTTPConfig{Host: "127.0.0.1", Port: 0})
}

func newHarnessWithConfig(t *testing.T, cfg config.HTTPConfig) *harness {
	t.Helper()

	users := newMemoryUsers()
	sessions := session.NewMemoryStore()
	clk := &clock{now: time.Now().UTC().Truncate(time.Second)}
	tokens := services.NewJWT("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour, services.WithClock(clk.Now))
	passwords := services.NewBcrypt(bcrypt.MinCost, 4)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	handler := authhttp.NewHandler(
		app.NewAuthUseCase(users, sessions, passwords, tokens),
		app.NewUserUseCase(users),
	)

	server := authhttp.New(&cfg, authhttp.Dependencies{
		Handler:  handler,
		Sessions: sessions,
		Tokens:   tokens,
		Metrics:  metrics,
		Logger:   logger.NewNop(),
	})

	return &harness{app: server.App(), users: users, sessions: sessions, clock: clk, metrics: metrics}
}

type response struct {
	status int
	header http.Header
	body   map[string]any
	raw    string
}

func (h *harness) do(t *testing.T, method, path, body, bearer string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return h.send(t, req)
}

func (h *harness) send(t *testing.T, req *http.Request) response {
	t.Helper()

	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := response{status: resp.StatusCode, header: resp.Header, raw: string(raw)}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func (r response) accessToken(t *testing.T) string {
	t.Helper()
	header := r.header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	require.True(t, ok, "authorization header missing: %q", header)
	require.NotEmpty(t, token)
	return token
}

func credentials(email, password string) string {
	b, _ := json.Marshal(map[string]string{"email": email, "password": password})
	return string(b)
}
