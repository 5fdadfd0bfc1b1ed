package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Бэкенды хранилища состояния посетителя
const (
	StateBackendPostgres = "postgres"
	StateBackendRedis    = "redis"
	StateBackendMemory   = "memory"
)

// Config содержит конфигурацию витрины
type Config struct {
	RunAddress    string        // Адрес и порт запуска сервиса
	DatabaseURI   string        // URI подключения к БД
	APIBaseURL    string        // Базовый адрес удаленного API RifaApp
	APITimeout    time.Duration // Таймаут запросов к API
	PublicBaseURL string        // Публичный адрес, по которому доступен /api витрины (ссылки в QR)
	LogLevel      string        // Уровень логирования

	// Хранилище состояния посетителя
	StateBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Сессия посетителя
	SessionSecret string        // Секретный ключ для cookie посетителя
	VisitorTTL    time.Duration // Сколько хранить состояние неактивного посетителя

	// Корзина
	DefaultMaxNumbers int // Лимит номеров, если розыгрыш его не задал

	// Janitor конфигурация
	JanitorWorkers   int
	JanitorQueueSize int
	JanitorInterval  time.Duration
}

// Load загружает конфигурацию из .env, переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{
		APITimeout:        10 * time.Second,
		PublicBaseURL:     "http://localhost:3000",
		LogLevel:          "info",
		RedisAddr:         "localhost:6379",
		SessionSecret:     "default-secret-key-change-in-production",
		VisitorTTL:        30 * 24 * time.Hour,
		DefaultMaxNumbers: 10,
		JanitorWorkers:    2,
		JanitorQueueSize:  100,
		JanitorInterval:   10 * time.Minute,
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	fs.StringVar(&cfg.APIBaseURL, "r", "http://localhost:4000/api", "RifaApp API base URL")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// Переменные окружения имеют приоритет над флагами
	if v, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = v
	}
	if v, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = v
	}
	if v, ok := os.LookupEnv("API_BASE_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv("PUBLIC_BASE_URL"); ok {
		cfg.PublicBaseURL = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("SESSION_SECRET"); ok {
		cfg.SessionSecret = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.RedisPassword = v
	}

	cfg.APITimeout = envDuration("API_TIMEOUT", cfg.APITimeout)
	cfg.VisitorTTL = envDuration("VISITOR_TTL", cfg.VisitorTTL)
	cfg.JanitorInterval = envDuration("JANITOR_INTERVAL", cfg.JanitorInterval)
	cfg.DefaultMaxNumbers = envPositiveInt("DEFAULT_MAX_NUMBERS", cfg.DefaultMaxNumbers)
	cfg.JanitorWorkers = envPositiveInt("JANITOR_WORKERS", cfg.JanitorWorkers)
	cfg.JanitorQueueSize = envPositiveInt("JANITOR_QUEUE_SIZE", cfg.JanitorQueueSize)

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			cfg.RedisDB = db
		}
	}

	// Бэкенд по умолчанию зависит от наличия БД
	if v, ok := os.LookupEnv("STATE_BACKEND"); ok && v != "" {
		cfg.StateBackend = v
	} else if cfg.DatabaseURI != "" {
		cfg.StateBackend = StateBackendPostgres
	} else {
		cfg.StateBackend = StateBackendMemory
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API base URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}

	switch c.StateBackend {
	case StateBackendPostgres:
		if c.DatabaseURI == "" {
			return fmt.Errorf("database URI is required for postgres state backend (use -d flag or DATABASE_URI env)")
		}
	case StateBackendRedis, StateBackendMemory:
	default:
		return fmt.Errorf("unknown state backend %q", c.StateBackend)
	}

	return nil
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envPositiveInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
