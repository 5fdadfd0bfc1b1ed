package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/utils/jwt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserKey      contextKey = "user"
)

// VisitorCookieName имя cookie посетителя
const VisitorCookieName = "rifa_visitor"

// TokenMigrator переносит токен сессии со старых ключей
type TokenMigrator interface {
	Migrate(ctx context.Context, visitorID uuid.UUID) error
}

// UserResolver возвращает пользователя текущей сессии (nil для анонимного)
type UserResolver interface {
	CurrentUser(ctx context.Context) (*domain.AuthUser, error)
}

// VisitorMiddleware определяет посетителя по подписанной cookie.
// Без cookie или с невалидной cookie выдается новый посетитель.
func VisitorMiddleware(jwtManager *jwt.Manager, migrator TokenMigrator, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID, ok := visitorFromCookie(r, jwtManager)
			if !ok {
				visitorID = uuid.New()
				token, err := jwtManager.Generate(visitorID)
				if err != nil {
					logger.Error("failed to sign visitor cookie", zap.Error(err))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(jwtManager.TTL().Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := domain.WithVisitorID(r.Context(), visitorID)

			if migrator != nil {
				if err := migrator.Migrate(ctx, visitorID); err != nil {
					logger.Warn("session token migration failed",
						zap.String("visitor_id", visitorID.String()),
						zap.Error(err),
					)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func visitorFromCookie(r *http.Request, jwtManager *jwt.Manager) (uuid.UUID, bool) {
	cookie, err := r.Cookie(VisitorCookieName)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, false
	}
	visitorID, err := jwtManager.Validate(cookie.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return visitorID, true
}

// RequireSession пропускает только посетителей с действующей сессией
func RequireSession(users UserResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.CurrentUser(r.Context())
			if err != nil {
				handleError(w, r, err, logger)
				return
			}
			if user == nil {
				handleError(w, r, domain.ErrUnauthorized, logger)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только администраторов. Ставится после RequireSession.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				handleError(w, r, domain.ErrUnauthorized, logger)
				return
			}
			if !user.Role.IsAdmin() {
				handleError(w, r, domain.ErrForbidden, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware генерирует уникальный request ID
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware логирует HTTP запросы
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Используем chi middleware wrapper для получения статуса
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				requestID, _ := r.Context().Value(RequestIDKey).(string)
				fields := []zap.Field{
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
				}
				logger.Info("HTTP request", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// RecoveryMiddleware обрабатывает паники
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID, _ := r.Context().Value(RequestIDKey).(string)
					logger.Error("panic recovered",
						zap.String("request_id", requestID),
						zap.Any("panic", rec),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// GetUser извлекает пользователя сессии из контекста
func GetUser(ctx context.Context) (*domain.AuthUser, bool) {
	user, ok := ctx.Value(UserKey).(*domain.AuthUser)
	return user, ok && user != nil
}

// visitorID извлекает посетителя или пишет 500, если middleware не подключен
func visitorID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	id, ok := domain.VisitorIDFromContext(r.Context())
	if !ok {
		logger.Error("visitor middleware is not installed", zap.String("path", r.URL.Path))
		writeError(w, http.StatusInternalServerError, "", logger)
		return uuid.Nil, false
	}
	return id, true
}
