package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avc/rifa-storefront/internal/config"
	"github.com/avc/rifa-storefront/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App представляет приложение витрины
type App struct {
	config     *config.Config
	logger     *zap.Logger
	state      *stateStorage
	router     *chi.Mux
	workerPool *worker.Pool
	server     *http.Server
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	ctx := context.Background()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Хранилище состояния посетителей
	state, err := initStateStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("state storage ready", zap.String("backend", cfg.StateBackend))

	// Инициализация зависимостей
	deps := initDependencies(cfg, state.repo, logger)

	// Настройка роутера
	router := setupRouter(deps, logger)

	// Создание HTTP сервера
	server := createServer(cfg.RunAddress, router)

	return &App{
		config:     cfg,
		logger:     logger,
		state:      state,
		router:     router,
		workerPool: deps.workerPool,
		server:     server,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск очистки состояния посетителей
	a.workerPool.Start(ctx)
	a.logger.Info("janitor started")

	// Запуск HTTP сервера и ожидание сигнала завершения
	if err := a.runServer(ctx); err != nil {
		return err
	}

	// Graceful shutdown
	a.shutdown(cancel)

	return nil
}
