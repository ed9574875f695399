// Package config содержит конфигурацию сервиса аутентификации.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"authgate/pkg/logger"
)

// Константы ошибок и сообщений для конфигурации.
const (
	LogLoadingConfig    = "Loading authentication service configuration"
	LogConfigLoaded     = "Configuration loaded successfully"
	ErrFailedLoadConfig = "Failed to load configuration"
	ErrInvalidConfig    = "Invalid configuration"
)

// Ошибки проверки конфигурации.
var (
	ErrEmptySecret       = errors.New("jwt secrets must not be empty")
	ErrSecretsEqual      = errors.New("access and refresh secrets must differ")
	ErrUnknownBackend    = errors.New("unknown session backend")
	ErrInvalidPoolBounds = errors.New("postgres min_conn exceeds max_conn")
	ErrNonPositiveTTL    = errors.New("token ttl must be positive")
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из переменных окружения и проверяет ее.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogLoadingConfig)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, ErrInvalidConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrInvalidConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Duration("access_token_ttl", cfg.JWT.AccessTokenTTL),
		zap.Duration("refresh_token_ttl", cfg.JWT.RefreshTokenTTL),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return &cfg, nil
}

// Validate проверяет согласованность значений, которые не выражаются тегами.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return ErrEmptySecret
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return ErrSecretsEqual
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: access=%s refresh=%s", ErrNonPositiveTTL, c.JWT.AccessTokenTTL, c.JWT.RefreshTokenTTL)
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Session.Backend)
	}
	if c.Postgres.MinConn > c.Postgres.MaxConn {
		return ErrInvalidPoolBounds
	}
	return nil
}
