package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockStateRepository struct {
	mock.Mock
}

func (m *mockStateRepository) Get(ctx context.Context, visitorID uuid.UUID, key string) ([]byte, error) {
	args := m.Called(ctx, visitorID, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

func (m *mockStateRepository) Put(ctx context.Context, visitorID uuid.UUID, key string, value []byte) error {
	return m.Called(ctx, visitorID, key, value).Error(0)
}

func (m *mockStateRepository) Delete(ctx context.Context, visitorID uuid.UUID, keys ...string) error {
	return m.Called(ctx, visitorID, keys).Error(0)
}

func (m *mockStateRepository) ListStaleVisitors(ctx context.Context, before time.Time, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, before, limit)
	visitors, _ := args.Get(0).([]uuid.UUID)
	return visitors, args.Error(1)
}

func (m *mockStateRepository) DeleteVisitor(ctx context.Context, visitorID uuid.UUID) error {
	return m.Called(ctx, visitorID).Error(0)
}

func (m *mockStateRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestPool_ScanStaleVisitors(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Queues visitors older than TTL", func(t *testing.T) {
		repo := &mockStateRepository{}
		pool := NewPool(PoolConfig{Workers: 1, QueueSize: 10, TTL: time.Hour, BatchSize: 50}, repo, logger)
		pool.now = func() time.Time { return now }

		visitors := []uuid.UUID{uuid.New(), uuid.New()}
		repo.On("ListStaleVisitors", mock.Anything, now.Add(-time.Hour), 50).Return(visitors, nil).Once()

		assert.Equal(t, 2, pool.scanStaleVisitors(context.Background()))
		assert.Equal(t, visitors[0], <-pool.queue)
		assert.Equal(t, visitors[1], <-pool.queue)
		repo.AssertExpectations(t)
	})

	t.Run("Full queue skips the rest", func(t *testing.T) {
		repo := &mockStateRepository{}
		pool := NewPool(PoolConfig{Workers: 1, QueueSize: 1, TTL: time.Hour}, repo, logger)

		repo.On("ListStaleVisitors", mock.Anything, mock.Anything, defaultBatchSize).
			Return([]uuid.UUID{uuid.New(), uuid.New(), uuid.New()}, nil).Once()

		assert.Equal(t, 1, pool.scanStaleVisitors(context.Background()))
		assert.Len(t, pool.queue, 1)
	})

	t.Run("List error", func(t *testing.T) {
		repo := &mockStateRepository{}
		pool := NewPool(PoolConfig{TTL: time.Hour}, repo, logger)

		repo.On("ListStaleVisitors", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		assert.Equal(t, 0, pool.scanStaleVisitors(context.Background()))
	})

	t.Run("Disabled without TTL", func(t *testing.T) {
		repo := &mockStateRepository{}
		pool := NewPool(PoolConfig{}, repo, logger)

		assert.Equal(t, 0, pool.scanStaleVisitors(context.Background()))
		repo.AssertNotCalled(t, "ListStaleVisitors", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPool_Purge(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := &mockStateRepository{}
	pool := NewPool(PoolConfig{}, repo, logger)

	ok, failing := uuid.New(), uuid.New()
	repo.On("DeleteVisitor", mock.Anything, ok).Return(nil).Once()
	repo.On("DeleteVisitor", mock.Anything, failing).Return(errors.New("db down")).Once()

	pool.purge(context.Background(), ok)
	pool.purge(context.Background(), failing)

	repo.AssertExpectations(t)
}

func TestPool_StartStop(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := &mockStateRepository{}
	pool := NewPool(PoolConfig{Workers: 2, QueueSize: 10, ScanInterval: 10 * time.Millisecond, TTL: time.Hour}, repo, logger)

	stale := uuid.New()
	repo.On("ListStaleVisitors", mock.Anything, mock.Anything, mock.Anything).Return([]uuid.UUID{stale}, nil).Once()
	repo.On("ListStaleVisitors", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	deleted := make(chan struct{})
	repo.On("DeleteVisitor", mock.Anything, stale).Return(nil).Run(func(mock.Arguments) {
		close(deleted)
	}).Once()

	pool.Start(context.Background())

	select {
	case <-deleted:
	case <-time.After(time.Second):
		t.Fatal("stale visitor was not deleted")
	}

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not stop")
	}
}
