package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger проверяет доступность зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	state  Pinger
	api    Pinger
	logger *zap.Logger
}

// NewHealthHandler создает новый HealthHandler
func NewHealthHandler(state, api Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		state:  state,
		api:    api,
		logger: logger,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
	API    string `json:"api"`
}

// Health возвращает статус приложения
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "ok",
		State:  "ok",
		API:    "ok",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.state.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.State = "unavailable"
		h.logger.Warn("health check: state storage unavailable", zap.Error(err))
	}

	if err := h.api.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.API = "unavailable"
		h.logger.Warn("health check: api unavailable", zap.Error(err))
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response, h.logger)
}

// Ready возвращает готовность приложения принимать трафик.
// Без хранилища состояния витрина не работает, недоступность API не блокирует трафик.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.state.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed: state storage unavailable", zap.Error(err))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
