package config

// Хранилища состояния сессии.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionConfig выбирает хранилище слота refresh-токена и черного списка.
type SessionConfig struct {
	Backend string `yaml:"backend" env:"AUTH_SESSION_BACKEND" env-default:"memory"`
}
