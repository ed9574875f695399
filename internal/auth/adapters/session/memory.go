package session

import (
	"context"
	"sync"

	"authgate/internal/auth/ports/repositories"
)

// MemoryStore хранит состояние сессии в памяти процесса.
type MemoryStore struct {
	mu      sync.Mutex
	refresh string
	revoked map[string]struct{}
}

// NewMemoryStore создает пустое хранилище.
func NewMemoryStore() repositories.SessionStore {
	return &MemoryStore{revoked: make(map[string]struct{})}
}

// SetRefresh заменяет содержимое слота.
func (s *MemoryStore) SetRefresh(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = token
	return nil
}

// GetRefresh возвращает содержимое слота.
func (s *MemoryStore) GetRefresh(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, nil
}

// ClearRefresh очищает слот.
func (s *MemoryStore) ClearRefresh(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = ""
	return nil
}

// ReplaceRefresh заменяет current на next, только если слот все еще содержит current.
func (s *MemoryStore) ReplaceRefresh(_ context.Context, current, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current == "" || s.refresh != current {
		return false, nil
	}
	s.refresh = next
	return true, nil
}

// Revoke добавляет токен в черный список.
func (s *MemoryStore) Revoke(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[digest(accessToken)] = struct{}{}
	return nil
}

// IsRevoked проверяет черный список.
func (s *MemoryStore) IsRevoked(_ context.Context, accessToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[digest(accessToken)]
	return ok, nil
}

// RevokedCount возвращает размер черного списка.
func (s *MemoryStore) RevokedCount(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.revoked)), nil
}
