package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/repository/memory"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthAPI мок domain.AuthAPI
type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*domain.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) GetSession(ctx context.Context) (*domain.SessionResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*domain.SessionResponse)
	return resp, args.Error(1)
}

func visitorContext() (context.Context, uuid.UUID) {
	id := uuid.New()
	return domain.WithVisitorID(context.Background(), id), id
}

func apiToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: gojwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("remote-api-secret"))
	require.NoError(t, err)
	return signed
}

func TestStore_Migrate(t *testing.T) {
	t.Run("Legacy token copied to canonical key", func(t *testing.T) {
		repo := memory.NewStateRepository()
		store := NewStore(repo, zap.NewNop())
		ctx, visitorID := visitorContext()

		require.NoError(t, repo.Put(ctx, visitorID, "user_token", []byte("legacy-user")))

		require.NoError(t, store.Migrate(ctx, visitorID))

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "legacy-user", token)

		_, err = repo.Get(ctx, visitorID, "user_token")
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
	})

	t.Run("First legacy key wins", func(t *testing.T) {
		repo := memory.NewStateRepository()
		store := NewStore(repo, zap.NewNop())
		ctx, visitorID := visitorContext()

		require.NoError(t, repo.Put(ctx, visitorID, "token", []byte("legacy-token")))
		require.NoError(t, repo.Put(ctx, visitorID, "user_token", []byte("legacy-user")))

		require.NoError(t, store.Migrate(ctx, visitorID))

		value, err := repo.Get(ctx, visitorID, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "legacy-token", string(value))
	})

	t.Run("Canonical key kept, legacy keys removed", func(t *testing.T) {
		repo := memory.NewStateRepository()
		store := NewStore(repo, zap.NewNop())
		ctx, visitorID := visitorContext()

		require.NoError(t, repo.Put(ctx, visitorID, TokenKey, []byte("current")))
		require.NoError(t, repo.Put(ctx, visitorID, "token", []byte("stale")))

		require.NoError(t, store.Migrate(ctx, visitorID))

		value, err := repo.Get(ctx, visitorID, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "current", string(value))

		_, err = repo.Get(ctx, visitorID, "token")
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
	})

	t.Run("Runs once per visitor", func(t *testing.T) {
		repo := memory.NewStateRepository()
		store := NewStore(repo, zap.NewNop())
		ctx, visitorID := visitorContext()

		require.NoError(t, store.Migrate(ctx, visitorID))

		// Значение под старым ключом после миграции больше не читается
		require.NoError(t, repo.Put(ctx, visitorID, "token", []byte("late")))
		require.NoError(t, store.Migrate(ctx, visitorID))

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestStore_Token(t *testing.T) {
	t.Run("No visitor in context", func(t *testing.T) {
		store := NewStore(memory.NewStateRepository(), zap.NewNop())

		token, err := store.Token(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("Expired JWT treated as absent and cleared", func(t *testing.T) {
		repo := memory.NewStateRepository()
		store := NewStore(repo, zap.NewNop())
		ctx, visitorID := visitorContext()

		require.NoError(t, store.SetToken(ctx, apiToken(t, time.Now().Add(-time.Minute))))

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)

		_, err = repo.Get(ctx, visitorID, TokenKey)
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
	})

	t.Run("Valid JWT returned", func(t *testing.T) {
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		ctx, _ := visitorContext()
		valid := apiToken(t, time.Now().Add(time.Hour))

		require.NoError(t, store.SetToken(ctx, valid))

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, valid, token)
	})

	t.Run("Opaque token returned as is", func(t *testing.T) {
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		ctx, _ := visitorContext()

		require.NoError(t, store.SetToken(ctx, "opaque"))

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "opaque", token)
	})

	t.Run("SetToken without visitor", func(t *testing.T) {
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		assert.ErrorIs(t, store.SetToken(context.Background(), "tok"), domain.ErrUnauthorized)
	})
}

func TestStore_ClearToken(t *testing.T) {
	repo := memory.NewStateRepository()
	store := NewStore(repo, zap.NewNop())
	ctx, visitorID := visitorContext()

	require.NoError(t, repo.Put(ctx, visitorID, TokenKey, []byte("a")))
	require.NoError(t, repo.Put(ctx, visitorID, "token", []byte("b")))
	require.NoError(t, repo.Put(ctx, visitorID, "rifa-cart", []byte("{}")))

	require.NoError(t, store.ClearToken(ctx))

	for _, key := range []string{TokenKey, "token", "user_token"} {
		_, err := repo.Get(ctx, visitorID, key)
		assert.ErrorIs(t, err, domain.ErrStateNotFound, key)
	}

	// Выбор номеров не затрагивается
	_, err := repo.Get(ctx, visitorID, "rifa-cart")
	assert.NoError(t, err)

	assert.NoError(t, store.ClearToken(context.Background()))
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     domain.FieldErrors
	}{
		{
			name:     "Valid",
			email:    "admin@rifa.test",
			password: "secret1",
			want:     domain.FieldErrors{},
		},
		{
			name:     "Empty fields",
			email:    "",
			password: "",
			want: domain.FieldErrors{
				"email":    "El email es requerido",
				"password": "La contraseña es requerida",
			},
		},
		{
			name:     "Invalid email and short password",
			email:    "admin",
			password: "12345",
			want: domain.FieldErrors{
				"email":    "Ingresa un email valido",
				"password": "La contraseña debe tener al menos 6 caracteres",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateLogin(tt.email, tt.password))
		})
	}
}

func TestService_Login(t *testing.T) {
	t.Run("Success stores token", func(t *testing.T) {
		api := new(mockAuthAPI)
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		svc := NewService(api, store, zap.NewNop())
		ctx, _ := visitorContext()

		api.On("Login", ctx, "admin@rifa.test", "secret1").Return(&domain.LoginResponse{
			User:        domain.AuthUser{ID: "u1", Email: "admin@rifa.test", Role: domain.RoleAdmin},
			AccessToken: "opaque-token",
		}, nil)

		user, err := svc.Login(ctx, " admin@rifa.test ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "opaque-token", token)

		api.AssertExpectations(t)
	})

	t.Run("Validation error skips API", func(t *testing.T) {
		api := new(mockAuthAPI)
		svc := NewService(api, NewStore(memory.NewStateRepository(), zap.NewNop()), zap.NewNop())
		ctx, _ := visitorContext()

		_, err := svc.Login(ctx, "bad", "1")

		var fieldErrs domain.FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Len(t, fieldErrs, 2)
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		api := new(mockAuthAPI)
		svc := NewService(api, NewStore(memory.NewStateRepository(), zap.NewNop()), zap.NewNop())
		ctx, _ := visitorContext()

		api.On("Login", ctx, "admin@rifa.test", "wrongpass").
			Return(nil, domain.ErrUnauthorized)

		_, err := svc.Login(ctx, "admin@rifa.test", "wrongpass")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestService_CurrentUser(t *testing.T) {
	t.Run("Anonymous without token", func(t *testing.T) {
		api := new(mockAuthAPI)
		svc := NewService(api, NewStore(memory.NewStateRepository(), zap.NewNop()), zap.NewNop())
		ctx, _ := visitorContext()

		user, err := svc.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
		api.AssertNotCalled(t, "GetSession", mock.Anything)
	})

	t.Run("Session user", func(t *testing.T) {
		api := new(mockAuthAPI)
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		svc := NewService(api, store, zap.NewNop())
		ctx, _ := visitorContext()
		require.NoError(t, store.SetToken(ctx, "tok"))

		api.On("GetSession", ctx).Return(&domain.SessionResponse{
			User: &domain.AuthUser{ID: "u1", Name: "Ana", Role: domain.RoleUser},
		}, nil)

		user, err := svc.CurrentUser(ctx)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Ana", user.Name)
	})

	t.Run("Failed check logs out", func(t *testing.T) {
		api := new(mockAuthAPI)
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		svc := NewService(api, store, zap.NewNop())
		ctx, _ := visitorContext()
		require.NoError(t, store.SetToken(ctx, "tok"))

		api.On("GetSession", ctx).Return(nil, errors.New("network down"))

		user, err := svc.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("Logout", func(t *testing.T) {
		store := NewStore(memory.NewStateRepository(), zap.NewNop())
		svc := NewService(new(mockAuthAPI), store, zap.NewNop())
		ctx, _ := visitorContext()
		require.NoError(t, store.SetToken(ctx, "tok"))

		require.NoError(t, svc.Logout(ctx))

		token, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}
