package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth/config"
	"authgate/internal/auth/db"
	"authgate/pkg/logger"
)

func unreachable(migrate bool) *config.PostgresConfig {
	return &config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "auth",
		Password: "auth",
		Database: "auth",
		MinConn:  1,
		MaxConn:  2,
		Migrate:  migrate,
	}
}

func TestNewFailsWhenDatabaseUnreachable(t *testing.T) {
	tests := []struct {
		name    string
		migrate bool
		wantMsg string
	}{
		{name: "migrations enabled", migrate: true, wantMsg: db.ErrDBMigrations},
		{name: "migrations disabled", migrate: false, wantMsg: db.ErrDBConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(logger.NewContext(context.Background(), logger.NewNop()), 5*time.Second)
			defer cancel()

			database, err := db.New(ctx, unreachable(tt.migrate))

			require.Error(t, err)
			assert.Nil(t, database)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
