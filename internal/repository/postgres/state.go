package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StateRepository реализует хранилище состояния посетителей в PostgreSQL.
// Последняя запись выигрывает.
type StateRepository struct {
	db DBTX
}

// NewStateRepository создает новый StateRepository
func NewStateRepository(db DBTX) *StateRepository {
	return &StateRepository{db: db}
}

// Get получает значение ключа посетителя
func (r *StateRepository) Get(ctx context.Context, visitorID uuid.UUID, key string) ([]byte, error) {
	var value []byte

	err := r.db.QueryRow(ctx,
		`SELECT value
		 FROM client_state
		 WHERE visitor_id = $1 AND key = $2`,
		visitorID, key,
	).Scan(&value)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("repository: failed to get state %q for visitor %s: %w", key, visitorID, err)
	}

	return value, nil
}

// Put сохраняет значение ключа посетителя (upsert)
func (r *StateRepository) Put(ctx context.Context, visitorID uuid.UUID, key string, value []byte) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO client_state (visitor_id, key, value, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (visitor_id, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		visitorID, key, value,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to put state %q for visitor %s: %w", key, visitorID, err)
	}

	return nil
}

// Delete удаляет ключи посетителя. Отсутствующие ключи не являются ошибкой.
func (r *StateRepository) Delete(ctx context.Context, visitorID uuid.UUID, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx,
		`DELETE FROM client_state
		 WHERE visitor_id = $1 AND key = ANY($2)`,
		visitorID, keys,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to delete state for visitor %s: %w", visitorID, err)
	}

	return nil
}

// ListStaleVisitors возвращает посетителей, чье состояние не менялось с момента before
func (r *StateRepository) ListStaleVisitors(ctx context.Context, before time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT visitor_id
		 FROM client_state
		 GROUP BY visitor_id
		 HAVING MAX(updated_at) < $1
		 LIMIT $2`,
		before, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list stale visitors: %w", err)
	}
	defer rows.Close()

	var visitors []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository: failed to scan visitor id: %w", err)
		}
		visitors = append(visitors, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: rows iteration failed: %w", err)
	}

	return visitors, nil
}

// DeleteVisitor удаляет все состояние посетителя
func (r *StateRepository) DeleteVisitor(ctx context.Context, visitorID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM client_state WHERE visitor_id = $1`,
		visitorID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to delete visitor %s: %w", visitorID, err)
	}

	return nil
}

// Ping проверяет доступность базы данных
func (r *StateRepository) Ping(ctx context.Context) error {
	p, ok := r.db.(pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("repository: ping failed: %w", err)
	}
	return nil
}
