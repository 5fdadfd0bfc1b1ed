package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avc/rifa-storefront/internal/domain"
	"go.uber.org/zap"
)

// SessionService определяет методы работы с сессией посетителя
type SessionService interface {
	Login(ctx context.Context, email, password string) (*domain.AuthUser, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.AuthUser, error)
}

type AuthHandler struct {
	sessions SessionService
	logger   *zap.Logger
}

func NewAuthHandler(sessions SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User *domain.AuthUser `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", h.logger)
		return
	}

	user, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user}, h.logger)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session возвращает пользователя сессии или {"user": null}
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessions.CurrentUser(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user}, h.logger)
}
