package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStateRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	ctx := context.Background()
	visitorID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"value"}).
			AddRow([]byte(`{"selectedNumbers":[3],"raffleId":"r1","maxNumbers":10}`))

		mock.ExpectQuery(`SELECT value FROM client_state`).
			WithArgs(visitorID, "rifa-cart").
			WillReturnRows(rows)

		value, err := repo.Get(ctx, visitorID, "rifa-cart")
		require.NoError(t, err)
		assert.JSONEq(t, `{"selectedNumbers":[3],"raffleId":"r1","maxNumbers":10}`, string(value))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT value FROM client_state`).
			WithArgs(visitorID, "auth_token").
			WillReturnError(pgx.ErrNoRows)

		value, err := repo.Get(ctx, visitorID, "auth_token")
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
		assert.Nil(t, value)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT value FROM client_state`).
			WithArgs(visitorID, "rifa-cart").
			WillReturnError(errors.New("database error"))

		value, err := repo.Get(ctx, visitorID, "rifa-cart")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrStateNotFound)
		assert.Nil(t, value)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStateRepository_Put(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	ctx := context.Background()
	visitorID := uuid.New()

	t.Run("Upsert", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO client_state`).
			WithArgs(visitorID, "auth_token", []byte("tok")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Put(ctx, visitorID, "auth_token", []byte("tok")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO client_state`).
			WithArgs(visitorID, "auth_token", []byte("tok")).
			WillReturnError(errors.New("database error"))

		assert.Error(t, repo.Put(ctx, visitorID, "auth_token", []byte("tok")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStateRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	ctx := context.Background()
	visitorID := uuid.New()

	t.Run("Several keys", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM client_state`).
			WithArgs(visitorID, []string{"token", "user_token"}).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, visitorID, "token", "user_token"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No keys - no query", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, visitorID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStateRepository_ListStaleVisitors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	ctx := context.Background()
	before := time.Now().Add(-time.Hour)

	t.Run("Success", func(t *testing.T) {
		first, second := uuid.New(), uuid.New()
		rows := pgxmock.NewRows([]string{"visitor_id"}).
			AddRow(first).
			AddRow(second)

		mock.ExpectQuery(`SELECT visitor_id FROM client_state`).
			WithArgs(before, 50).
			WillReturnRows(rows)

		visitors, err := repo.ListStaleVisitors(ctx, before, 50)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first, second}, visitors)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT visitor_id FROM client_state`).
			WithArgs(before, 50).
			WillReturnRows(pgxmock.NewRows([]string{"visitor_id"}))

		visitors, err := repo.ListStaleVisitors(ctx, before, 50)
		require.NoError(t, err)
		assert.Empty(t, visitors)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT visitor_id FROM client_state`).
			WithArgs(before, 50).
			WillReturnError(errors.New("database error"))

		_, err := repo.ListStaleVisitors(ctx, before, 50)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStateRepository_DeleteVisitor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	visitorID := uuid.New()

	mock.ExpectExec(`DELETE FROM client_state WHERE visitor_id`).
		WithArgs(visitorID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, repo.DeleteVisitor(context.Background(), visitorID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateRepository_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, repo.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	names, err := upMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_client_state.up.sql", names[0])

	t.Run("Success", func(t *testing.T) {
		for range names {
			mock.ExpectExec(`CREATE TABLE IF NOT EXISTS client_state`).
				WillReturnResult(pgxmock.NewResult("CREATE", 0))
		}

		require.NoError(t, RunMigrations(context.Background(), mock, zap.NewNop()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure stops", func(t *testing.T) {
		mock.ExpectExec(`CREATE TABLE`).
			WillReturnError(errors.New("permission denied"))

		err := RunMigrations(context.Background(), mock, zap.NewNop())
		assert.ErrorContains(t, err, "001_client_state.up.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
