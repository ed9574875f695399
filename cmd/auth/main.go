// Package main реализует точку входа службы аутентификации.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	authhttp "authgate/internal/auth/adapters/http"
	"authgate/internal/auth/adapters/postgres"
	"authgate/internal/auth/adapters/services"
	"authgate/internal/auth/adapters/session"
	"authgate/internal/auth/app"
	"authgate/internal/auth/config"
	"authgate/internal/auth/db"
	"authgate/internal/auth/observability"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/db/redis"
	"authgate/pkg/logger"
	"authgate/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOGGER_MODE"
	EnvLoggerLevel = "AUTH_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to initialize redis session store"
	ErrStartMetrics         = "failed to start observability server"
	ErrServeHTTP            = "HTTP server stopped unexpectedly"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "authentication service started"
	LogServiceShutdownDone = "authentication service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogInitRepo            = "initializing repositories"
	LogInitSessions        = "initializing session store"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitRepo)
		userRepo := postgres.NewRepositoryFactory(database.Pool()).UserRepository()

		log.Info(ctx, LogInitSessions, zap.String("backend", cfg.Session.Backend))
		readiness := []observability.ReadinessChecker{database.Ping}
		var (
			sessions    repositories.SessionStore
			redisClient *goredis.Client
		)
		switch cfg.Session.Backend {
		case config.SessionBackendRedis:
			redisClient, err = redis.NewClient(ctx, cfg.Redis.ClientConfig())
			if err != nil {
				log.Error(ctx, ErrInitRedis, zap.Error(err))
				database.Close(ctx)
				exitCode = 1
				return
			}
			sessions = session.NewRedisStore(redisClient, session.WithKeyPrefix(cfg.Redis.KeyPrefix))
			readiness = append(readiness, func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
		default:
			sessions = session.NewMemoryStore()
		}

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessTokenTTL,
			cfg.JWT.RefreshTokenTTL,
			cfg.JWT.BCryptCost,
			cfg.JWT.HashConcurrency,
		)
		tokenService := serviceFactory.TokenService()

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(userRepo, sessions, serviceFactory.PasswordService(), tokenService)
		userUseCase := app.NewUserUseCase(userRepo)

		var (
			metrics    *observability.Metrics
			obsServer  *observability.Server
			stopHooks  []shutdown.Hook
			closeHooks []shutdown.Hook
		)
		if cfg.Metrics.Enabled {
			obsServer = observability.NewServer(cfg.Metrics.GetAddress(), readiness...)
			observability.RegisterRevokedGauge(obsServer.Registry(), sessions)
			if err := obsServer.Start(ctx); err != nil {
				log.Error(ctx, ErrStartMetrics, zap.Error(err))
				database.Close(ctx)
				exitCode = 1
				return
			}
			metrics = obsServer.Metrics()
			stopHooks = append(stopHooks, obsServer.Stop)
		}

		log.Info(ctx, LogInitHTTPServer)
		httpServer := authhttp.New(&cfg.HTTP, authhttp.Dependencies{
			Handler:  authhttp.NewHandler(authUseCase, userUseCase),
			Sessions: sessions,
			Tokens:   tokenService,
			Metrics:  metrics,
			Logger:   log,
		})
		stopHooks = append(stopHooks, httpServer.Stop)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var serveFailed atomic.Bool
		serveErrs := httpServer.Start(ctx)
		go func() {
			if err, ok := <-serveErrs; ok && err != nil {
				log.Error(ctx, ErrServeHTTP, zap.Error(err))
				serveFailed.Store(true)
				cancel()
			}
		}()

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		if err := shutdown.Wait(runCtx, cfg.Shutdown.GetTimeout(), stopHooks...); err != nil {
			log.Warn(ctx, ErrShutdown, zap.Error(err))
		}

		// Хранилища закрываются после того, как сервер перестал принимать запросы.
		closeHooks = append(closeHooks, func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
			return nil
		})
		if redisClient != nil {
			closeHooks = append(closeHooks, func(ctx context.Context) error {
				return redis.Close(ctx, redisClient)
			})
		}
		if err := shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), closeHooks...); err != nil {
			log.Warn(ctx, ErrShutdown, zap.Error(err))
		}

		if serveFailed.Load() {
			exitCode = 1
		}
		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
