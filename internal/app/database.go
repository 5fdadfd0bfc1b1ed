package app

import (
	"context"
	"fmt"

	"github.com/avc/rifa-storefront/internal/config"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/repository/memory"
	"github.com/avc/rifa-storefront/internal/repository/postgres"
	redisrepo "github.com/avc/rifa-storefront/internal/repository/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// stateStorage хранилище состояния посетителей и функция его закрытия
type stateStorage struct {
	repo  domain.StateRepository
	close func()
}

// initStateStorage создает хранилище состояния выбранного бэкенда
func initStateStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stateStorage, error) {
	switch cfg.StateBackend {
	case config.StateBackendPostgres:
		dbPool, err := initDatabase(ctx, cfg.DatabaseURI, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database")
		return &stateStorage{
			repo: postgres.NewStateRepository(dbPool),
			close: func() {
				dbPool.Close()
				logger.Info("database connection closed")
			},
		}, nil

	case config.StateBackendRedis:
		client, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			return nil, err
		}
		return &stateStorage{
			repo: redisrepo.NewStateRepository(client, cfg.VisitorTTL, logger),
			close: func() {
				if err := client.Close(); err != nil {
					logger.Error("redis close error", zap.Error(err))
				}
				logger.Info("redis connection closed")
			},
		}, nil

	case config.StateBackendMemory:
		logger.Warn("using in-memory state storage, visitor state is lost on restart")
		return &stateStorage{
			repo:  memory.NewStateRepository(),
			close: func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

// initDatabase создает пул соединений с базой данных и выполняет миграции
func initDatabase(ctx context.Context, databaseURI string, logger *zap.Logger) (*pgxpool.Pool, error) {
	dbPool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.RunMigrations(ctx, dbPool, logger); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations completed successfully")

	return dbPool, nil
}
