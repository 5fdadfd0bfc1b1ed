package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/utils/validate"
	"go.uber.org/zap"
)

// MinPasswordLength минимальная длина пароля в форме входа
const MinPasswordLength = 6

// Service реализует вход, выход и получение пользователя сессии
type Service struct {
	api    domain.AuthAPI
	store  *Store
	logger *zap.Logger
}

// NewService создает новый Service
func NewService(api domain.AuthAPI, store *Store, logger *zap.Logger) *Service {
	return &Service{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// ValidateLogin проверяет форму входа
func ValidateLogin(email, password string) domain.FieldErrors {
	errs := domain.FieldErrors{}

	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs["email"] = "El email es requerido"
	case !validate.Email(email):
		errs["email"] = "Ingresa un email valido"
	}

	switch {
	case password == "":
		errs["password"] = "La contraseña es requerida"
	case utf8.RuneCountInString(password) < MinPasswordLength:
		errs["password"] = "La contraseña debe tener al menos 6 caracteres"
	}

	return errs
}

// Login аутентифицирует посетителя и сохраняет токен сессии
func (s *Service) Login(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	if errs := ValidateLogin(email, password); !errs.Empty() {
		return nil, errs
	}

	resp, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("session: login failed: %w", err)
	}

	if err := s.store.SetToken(ctx, resp.AccessToken); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", resp.User.ID),
		zap.String("role", string(resp.User.Role)),
	)

	user := resp.User
	return &user, nil
}

// Logout удаляет токен сессии посетителя
func (s *Service) Logout(ctx context.Context) error {
	return s.store.ClearToken(ctx)
}

// CurrentUser возвращает пользователя сессии или nil для анонимного посетителя.
// Любая ошибка проверки сессии приводит к выходу.
func (s *Service) CurrentUser(ctx context.Context) (*domain.AuthUser, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	resp, err := s.api.GetSession(ctx)
	if err != nil || resp == nil || resp.User == nil {
		if err != nil {
			s.logger.Debug("session check failed", zap.Error(err))
		}
		if clearErr := s.store.ClearToken(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}

	return resp.User, nil
}
