// Package db поднимает хранилище учетных данных: миграции и пул соединений.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"authgate/internal/auth/config"
	"authgate/migrations"
	"authgate/pkg/db/postgres"
	"authgate/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing authentication database"
	LogDBInitialized     = "authentication database initialized successfully"
	LogMigrationStarting = "starting database migrations for authentication service"
	LogMigrationSkipped  = "database migrations disabled"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply authentication database migrations"
	ErrDBConnection = "failed to connect to authentication database"
)

// DB представляет соединение с базой данных сервиса авторизации.
type DB struct {
	database *postgres.Database
}

// New применяет встроенные миграции, если они включены, и открывает пул.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	if cfg.Migrate {
		log.Info(ctx, LogMigrationStarting, zap.String("source", migrations.AuthDir))
		if err := postgres.Migrate(ctx, migrations.Auth, migrations.AuthDir, cfg.GetConnectionURL()); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
		}
	} else {
		log.Info(ctx, LogMigrationSkipped)
	}

	database, err := postgres.New(ctx, cfg.GetDSN(), int32(cfg.MinConn), int32(cfg.MaxConn)) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{
		database: database,
	}, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
