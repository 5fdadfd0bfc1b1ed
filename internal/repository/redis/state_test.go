package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStateKey(t *testing.T) {
	id := uuid.MustParse("9b2d4f1e-7a0c-4c58-9d3e-0f6a1b2c3d4e")
	assert.Equal(t, "state:9b2d4f1e-7a0c-4c58-9d3e-0f6a1b2c3d4e:rifa-cart", stateKey(id, "rifa-cart"))
}

// newTestRepository подключается к Redis из TEST_REDIS_ADDR или пропускает тест
func newTestRepository(t *testing.T, ttl time.Duration) *StateRepository {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client, err := NewClient(context.Background(), addr, "", 0, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewStateRepository(client, ttl, zap.NewNop())
}

func TestStateRepository_RoundTrip(t *testing.T) {
	repo := newTestRepository(t, time.Minute)
	ctx := context.Background()
	visitorID := uuid.New()
	t.Cleanup(func() { repo.DeleteVisitor(ctx, visitorID) })

	_, err := repo.Get(ctx, visitorID, "rifa-cart")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	require.NoError(t, repo.Put(ctx, visitorID, "rifa-cart", []byte(`{"selectedNumbers":[1]}`)))
	require.NoError(t, repo.Put(ctx, visitorID, "auth_token", []byte("tok")))

	value, err := repo.Get(ctx, visitorID, "rifa-cart")
	require.NoError(t, err)
	assert.Equal(t, `{"selectedNumbers":[1]}`, string(value))

	ttl, err := repo.client.TTL(ctx, stateKey(visitorID, "auth_token")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, repo.Delete(ctx, visitorID, "auth_token"))
	_, err = repo.Get(ctx, visitorID, "auth_token")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	require.NoError(t, repo.DeleteVisitor(ctx, visitorID))
	_, err = repo.Get(ctx, visitorID, "rifa-cart")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestStateRepository_ListStaleVisitorsIsNoop(t *testing.T) {
	repo := NewStateRepository(redis.NewClient(&redis.Options{Addr: "localhost:0"}), time.Minute, zap.NewNop())

	visitors, err := repo.ListStaleVisitors(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, visitors)
}

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewClient(ctx, "127.0.0.1:1", "", 0, zap.NewNop())
	assert.Error(t, err)
}
