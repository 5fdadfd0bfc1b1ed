package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerName имя корневого логгера сервиса
const loggerName = "storefront"

// initLogger создает логгер по значению LOG_LEVEL.
// "production" и уровни info и выше пишут JSON, "debug" пишет консольный
// формат разработки. Неизвестное значение считается ошибкой конфигурации.
func initLogger(logLevel string) (*zap.Logger, error) {
	cfg, err := loggerConfig(logLevel)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return logger.Named(loggerName), nil
}

func loggerConfig(logLevel string) (zap.Config, error) {
	switch logLevel {
	case "", "production":
		return zap.NewProductionConfig(), nil
	case "debug":
		return zap.NewDevelopmentConfig(), nil
	}

	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return zap.Config{}, fmt.Errorf("failed to init logger: unknown log level %q", logLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg, nil
}
