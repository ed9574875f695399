package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// Ключи по умолчанию.
const (
	DefaultRefreshKey = "authgate:session:refresh"
	DefaultRevokedKey = "authgate:session:revoked"
)

const (
	LogMethodSetRefresh     = "SetRefresh"
	LogMethodGetRefresh     = "GetRefresh"
	LogMethodClearRefresh   = "ClearRefresh"
	LogMethodReplaceRefresh = "ReplaceRefresh"
	LogMethodRevoke         = "Revoke"
	LogMethodIsRevoked      = "IsRevoked"
	LogMethodRevokedCount   = "RevokedCount"

	ErrorFailedToSetRefresh     = "failed to store refresh token in redis"
	ErrorFailedToGetRefresh     = "failed to read refresh token from redis"
	ErrorFailedToClearRefresh   = "failed to clear refresh token in redis"
	ErrorFailedToReplaceRefresh = "failed to rotate refresh token in redis"
	ErrorFailedToRevoke         = "failed to revoke token in redis"
	ErrorFailedToCheckRevoked   = "failed to check revoked token in redis"
	ErrorFailedToCountRevoked   = "failed to count revoked tokens in redis"
)

var replaceRefreshScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('SET', KEYS[1], ARGV[2])
	return 1
end
return 0
`)

// RedisStore хранит состояние сессии в Redis, чтобы его разделяли несколько экземпляров сервиса.
// Отозванные токены лежат в множестве без срока жизни.
type RedisStore struct {
	client     redis.Cmdable
	refreshKey string
	revokedKey string
}

// RedisOption настраивает RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix задает префикс ключей вместо authgate:session.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.refreshKey = prefix + ":refresh"
		s.revokedKey = prefix + ":revoked"
	}
}

// NewRedisStore создает хранилище поверх готового клиента.
func NewRedisStore(client redis.Cmdable, opts ...RedisOption) repositories.SessionStore {
	s := &RedisStore{
		client:     client,
		refreshKey: DefaultRefreshKey,
		revokedKey: DefaultRevokedKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRefresh заменяет содержимое слота.
func (s *RedisStore) SetRefresh(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.refreshKey, token, 0).Err(); err != nil {
		return s.fail(ctx, LogMethodSetRefresh, ErrorFailedToSetRefresh, err)
	}
	return nil
}

// GetRefresh возвращает содержимое слота или пустую строку.
func (s *RedisStore) GetRefresh(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, s.refreshKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", s.fail(ctx, LogMethodGetRefresh, ErrorFailedToGetRefresh, err)
	}
	return value, nil
}

// ClearRefresh очищает слот.
func (s *RedisStore) ClearRefresh(ctx context.Context) error {
	if err := s.client.Del(ctx, s.refreshKey).Err(); err != nil {
		return s.fail(ctx, LogMethodClearRefresh, ErrorFailedToClearRefresh, err)
	}
	return nil
}

// ReplaceRefresh атомарно заменяет current на next.
func (s *RedisStore) ReplaceRefresh(ctx context.Context, current, next string) (bool, error) {
	if current == "" {
		return false, nil
	}
	swapped, err := replaceRefreshScript.Run(ctx, s.client, []string{s.refreshKey}, current, next).Int()
	if err != nil {
		return false, s.fail(ctx, LogMethodReplaceRefresh, ErrorFailedToReplaceRefresh, err)
	}
	return swapped == 1, nil
}

// Revoke добавляет токен в черный список.
func (s *RedisStore) Revoke(ctx context.Context, accessToken string) error {
	if err := s.client.SAdd(ctx, s.revokedKey, digest(accessToken)).Err(); err != nil {
		return s.fail(ctx, LogMethodRevoke, ErrorFailedToRevoke, err)
	}
	return nil
}

// IsRevoked проверяет черный список.
func (s *RedisStore) IsRevoked(ctx context.Context, accessToken string) (bool, error) {
	revoked, err := s.client.SIsMember(ctx, s.revokedKey, digest(accessToken)).Result()
	if err != nil {
		return false, s.fail(ctx, LogMethodIsRevoked, ErrorFailedToCheckRevoked, err)
	}
	return revoked, nil
}

// RevokedCount возвращает размер черного списка.
func (s *RedisStore) RevokedCount(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, s.revokedKey).Result()
	if err != nil {
		return 0, s.fail(ctx, LogMethodRevokedCount, ErrorFailedToCountRevoked, err)
	}
	return n, nil
}

func (s *RedisStore) fail(ctx context.Context, method, msg string, err error) error {
	logger.Log(ctx).Error(ctx, msg, zap.String("method", method), zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}
