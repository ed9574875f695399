package repositories

import "context"

// SessionStore хранит единственный действующий refresh-токен и множество отозванных access-токенов.
//
// На весь процесс существует один слот refresh-токена: новый вход перезаписывает предыдущий.
// Все методы безопасны для конкурентного вызова.
type SessionStore interface {
	SetRefresh(ctx context.Context, token string) error

	// GetRefresh возвращает пустую строку, если слот пуст.
	GetRefresh(ctx context.Context) (string, error)

	ClearRefresh(ctx context.Context) error

	// ReplaceRefresh атомарно заменяет current на next и сообщает, совпадал ли слот с current.
	ReplaceRefresh(ctx context.Context, current, next string) (bool, error)

	Revoke(ctx context.Context, accessToken string) error

	IsRevoked(ctx context.Context, accessToken string) (bool, error)

	// RevokedCount - размер множества отозванных токенов. Оно не очищается.
	RevokedCount(ctx context.Context) (int64, error)
}
