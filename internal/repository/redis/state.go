package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "state:"

// scanBatch размер страницы SCAN при удалении посетителя
const scanBatch = 100

// StateRepository реализует хранилище состояния посетителей в Redis.
// Каждый ключ живет ttl с момента последней записи, поэтому
// устаревшие посетители исчезают сами.
type StateRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewClient подключается к Redis и проверяет соединение
func NewClient(ctx context.Context, addr, password string, db int, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", addr))

	return rdb, nil
}

// NewStateRepository создает новый StateRepository
func NewStateRepository(client *redis.Client, ttl time.Duration, log *zap.Logger) *StateRepository {
	return &StateRepository{client: client, ttl: ttl, log: log}
}

// stateKey строит ключ Redis вида state:<visitor>:<key>
func stateKey(visitorID uuid.UUID, key string) string {
	return keyPrefix + visitorID.String() + ":" + key
}

// Get получает значение ключа посетителя
func (r *StateRepository) Get(ctx context.Context, visitorID uuid.UUID, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, stateKey(visitorID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("repository: failed to get state %q for visitor %s: %w", key, visitorID, err)
	}
	return value, nil
}

// Put сохраняет значение и продлевает TTL
func (r *StateRepository) Put(ctx context.Context, visitorID uuid.UUID, key string, value []byte) error {
	if err := r.client.Set(ctx, stateKey(visitorID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("repository: failed to put state %q for visitor %s: %w", key, visitorID, err)
	}
	return nil
}

// Delete удаляет ключи посетителя
func (r *StateRepository) Delete(ctx context.Context, visitorID uuid.UUID, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		redisKeys = append(redisKeys, stateKey(visitorID, k))
	}

	if err := r.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("repository: failed to delete state for visitor %s: %w", visitorID, err)
	}
	return nil
}

// ListStaleVisitors всегда возвращает пустой список: истечение TTL удаляет ключи само
func (r *StateRepository) ListStaleVisitors(context.Context, time.Time, int) ([]uuid.UUID, error) {
	return nil, nil
}

// DeleteVisitor удаляет все ключи посетителя
func (r *StateRepository) DeleteVisitor(ctx context.Context, visitorID uuid.UUID) error {
	pattern := keyPrefix + visitorID.String() + ":*"

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("repository: failed to scan visitor %s: %w", visitorID, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("repository: failed to delete visitor %s: %w", visitorID, err)
			}
		}

		if next == 0 {
			break
		}
		cursor = next
	}

	r.log.Debug("visitor state deleted", zap.String("visitor_id", visitorID.String()))
	return nil
}

// Ping проверяет доступность Redis
func (r *StateRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("repository: redis ping failed: %w", err)
	}
	return nil
}
