package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
)

type visitorState struct {
	values    map[string][]byte
	updatedAt time.Time
}

// StateRepository хранит состояние посетителей в памяти процесса.
// Используется для разработки и тестов.
type StateRepository struct {
	mu       sync.RWMutex
	visitors map[uuid.UUID]*visitorState
	now      func() time.Time
}

// NewStateRepository создает новый StateRepository
func NewStateRepository() *StateRepository {
	return &StateRepository{
		visitors: make(map[uuid.UUID]*visitorState),
		now:      time.Now,
	}
}

func (r *StateRepository) Get(_ context.Context, visitorID uuid.UUID, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.visitors[visitorID]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	value, ok := state.values[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}

	// Копия, чтобы вызывающий не мог изменить хранимые данные
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (r *StateRepository) Put(_ context.Context, visitorID uuid.UUID, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.visitors[visitorID]
	if !ok {
		state = &visitorState{values: make(map[string][]byte)}
		r.visitors[visitorID] = state
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	state.values[key] = stored
	state.updatedAt = r.now()

	return nil
}

func (r *StateRepository) Delete(_ context.Context, visitorID uuid.UUID, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.visitors[visitorID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(state.values, k)
	}
	if len(state.values) == 0 {
		delete(r.visitors, visitorID)
	}

	return nil
}

func (r *StateRepository) ListStaleVisitors(_ context.Context, before time.Time, limit int) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []uuid.UUID
	for id, state := range r.visitors {
		if limit > 0 && len(stale) >= limit {
			break
		}
		if state.updatedAt.Before(before) {
			stale = append(stale, id)
		}
	}

	return stale, nil
}

func (r *StateRepository) DeleteVisitor(_ context.Context, visitorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.visitors, visitorID)
	return nil
}

func (r *StateRepository) Ping(context.Context) error {
	return nil
}
