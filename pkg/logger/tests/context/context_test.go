package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/pkg/logger"
)

func TestFromContext(t *testing.T) {
	t.Run("logger present", func(t *testing.T) {
		l, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		got, err := logger.FromContext(logger.NewContext(context.Background(), l))
		require.NoError(t, err)
		assert.Same(t, l, got)
	})

	t.Run("logger missing", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	t.Run("prefers context logger", func(t *testing.T) {
		ctxLogger := logger.NewNop()
		global := logger.NewNop()
		logger.SetGlobalLogger(global)

		assert.Same(t, ctxLogger, logger.Log(logger.NewContext(context.Background(), ctxLogger)))
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		global := logger.NewNop()
		logger.SetGlobalLogger(global)

		assert.Same(t, global, logger.Log(context.Background()))
	})

	t.Run("fallback when nothing configured", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		assert.NotNil(t, logger.Log(context.Background()))
	})
}

func TestNewLoggerLevels(t *testing.T) {
	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
			l, err := logger.NewLogger(env, level)
			require.NoError(t, err, "env=%s level=%s", env, level)
			require.NotNil(t, l)
		}
	}
}
