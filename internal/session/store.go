package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/utils/jwt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenKey единственный ключ хранения токена сессии
const TokenKey = "auth_token"

// legacyTokenKeys ключи, под которыми токен хранился раньше
var legacyTokenKeys = []string{"token", "user_token"}

// Store хранит токен сессии посетителя в его состоянии.
// Реализует domain.TokenSource: посетитель берется из контекста запроса.
type Store struct {
	repo     domain.StateRepository
	logger   *zap.Logger
	now      func() time.Time
	migrated sync.Map // uuid.UUID -> struct{}
}

// NewStore создает новый Store
func NewStore(repo domain.StateRepository, logger *zap.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Migrate переносит токен со старых ключей на TokenKey и удаляет старые ключи.
// Выполняется один раз для посетителя за время жизни процесса.
func (s *Store) Migrate(ctx context.Context, visitorID uuid.UUID) error {
	if _, done := s.migrated.Load(visitorID); done {
		return nil
	}

	_, err := s.repo.Get(ctx, visitorID, TokenKey)
	switch {
	case errors.Is(err, domain.ErrStateNotFound):
		if err := s.copyLegacyToken(ctx, visitorID); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("session: failed to read token: %w", err)
	}

	if err := s.repo.Delete(ctx, visitorID, legacyTokenKeys...); err != nil {
		return fmt.Errorf("session: failed to delete legacy tokens: %w", err)
	}

	s.migrated.Store(visitorID, struct{}{})
	return nil
}

func (s *Store) copyLegacyToken(ctx context.Context, visitorID uuid.UUID) error {
	for _, key := range legacyTokenKeys {
		value, err := s.repo.Get(ctx, visitorID, key)
		if errors.Is(err, domain.ErrStateNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("session: failed to read legacy token %q: %w", key, err)
		}
		if len(value) == 0 {
			continue
		}

		if err := s.repo.Put(ctx, visitorID, TokenKey, value); err != nil {
			return fmt.Errorf("session: failed to migrate token: %w", err)
		}
		s.logger.Info("session token migrated",
			zap.String("visitor_id", visitorID.String()),
			zap.String("from", key),
		)
		return nil
	}
	return nil
}

// Token возвращает токен текущего посетителя или пустую строку.
// Истекший токен считается отсутствующим и удаляется.
func (s *Store) Token(ctx context.Context) (string, error) {
	visitorID, ok := domain.VisitorIDFromContext(ctx)
	if !ok {
		return "", nil
	}

	value, err := s.repo.Get(ctx, visitorID, TokenKey)
	if errors.Is(err, domain.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: failed to read token: %w", err)
	}

	token := string(value)
	if token == "" {
		return "", nil
	}

	// Непрозрачные токены отдаем как есть, истечение проверит API
	if info, err := jwt.InspectAPIToken(token); err == nil && info.Expired(s.now()) {
		s.logger.Debug("session token expired", zap.String("visitor_id", visitorID.String()))
		if err := s.repo.Delete(ctx, visitorID, TokenKey); err != nil {
			return "", fmt.Errorf("session: failed to clear expired token: %w", err)
		}
		return "", nil
	}

	return token, nil
}

// SetToken сохраняет токен текущего посетителя
func (s *Store) SetToken(ctx context.Context, token string) error {
	visitorID, ok := domain.VisitorIDFromContext(ctx)
	if !ok {
		return fmt.Errorf("session: %w", domain.ErrUnauthorized)
	}

	if err := s.repo.Put(ctx, visitorID, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("session: failed to store token: %w", err)
	}
	return nil
}

// ClearToken удаляет токен текущего посетителя (включая старые ключи)
func (s *Store) ClearToken(ctx context.Context) error {
	visitorID, ok := domain.VisitorIDFromContext(ctx)
	if !ok {
		return nil
	}

	keys := append([]string{TokenKey}, legacyTokenKeys...)
	if err := s.repo.Delete(ctx, visitorID, keys...); err != nil {
		return fmt.Errorf("session: failed to clear token: %w", err)
	}
	return nil
}
