package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"authgate/internal/auth/domain/services"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

const (
	errMsgFailedToGenerateHash = "failed to generate password hash"
	errMsgWaitingForSlot       = "waiting for hashing slot"
	msgMalformedHash           = "stored password hash is malformed"
)

// maxPasswordBytes - сколько байт пароля учитывает bcrypt. Остаток отбрасывается.
const maxPasswordBytes = 72

// ServiceBcrypt реализует PasswordService на bcrypt.
// Число одновременных вычислений ограничено, чтобы хэширование не занимало все ядра.
type ServiceBcrypt struct {
	cost  int
	slots *semaphore.Weighted
}

// NewBcrypt создает сервис с рабочим фактором cost и не более чем concurrency параллельными вычислениями.
func NewBcrypt(cost, concurrency int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = services.DefaultBCryptCost
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &ServiceBcrypt{cost: cost, slots: semaphore.NewWeighted(int64(concurrency))}
}

// Hash хэширует пароль со случайной солью.
func (s *ServiceBcrypt) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", services.ErrEmptyPassword
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%s: %w", errMsgWaitingForSlot, err)
	}
	defer s.slots.Release(1)

	hashed, err := bcrypt.GenerateFromPassword(significant(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed, err)
	}

	return string(hashed), nil
}

// Verify сравнивает пароль с хэшем за постоянное время.
func (s *ServiceBcrypt) Verify(ctx context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, nil
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("%s: %w", errMsgWaitingForSlot, err)
	}
	defer s.slots.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), significant(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		logger.Log(ctx).Warn(ctx, msgMalformedHash, zap.Error(err))
		return false, nil
	}
}

func significant(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		return b[:maxPasswordBytes]
	}
	return b
}
