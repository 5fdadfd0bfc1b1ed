package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avc/rifa-storefront/internal/catalog"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/draw"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DrawService определяет методы проведения розыгрыша
type DrawService interface {
	Open(ctx context.Context, visitorID uuid.UUID, raffleID string) (*draw.Prompt, error)
	Confirm(ctx context.Context, visitorID uuid.UUID, raffleID, token string) (*draw.Outcome, error)
	Cancel(ctx context.Context, visitorID uuid.UUID, raffleID string) error
	Phase(ctx context.Context, visitorID uuid.UUID, raffleID string) (draw.Phase, error)
}

// RaffleManager определяет методы управления розыгрышами магазина
type RaffleManager interface {
	Create(ctx context.Context, form catalog.RaffleForm) (*domain.Raffle, error)
	Update(ctx context.Context, id string, form catalog.RaffleForm) (*domain.Raffle, error)
	Delete(ctx context.Context, id string) error
}

// AdminHandler обрабатывает запросы административной части магазина
type AdminHandler struct {
	raffles   domain.RaffleAPI
	purchases domain.PurchaseAPI
	draws     DrawService
	catalog   RaffleManager
	logger    *zap.Logger
}

func NewAdminHandler(raffles domain.RaffleAPI, purchases domain.PurchaseAPI, draws DrawService, raffleManager RaffleManager, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		raffles:   raffles,
		purchases: purchases,
		draws:     draws,
		catalog:   raffleManager,
		logger:    logger,
	}
}

type confirmDrawRequest struct {
	Token string `json:"token"`
}

type drawPhaseResponse struct {
	Phase draw.Phase `json:"phase"`
}

func (h *AdminHandler) Raffles(w http.ResponseWriter, r *http.Request) {
	raffles, err := h.raffles.ListAdminRaffles(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if raffles == nil {
		raffles = []*domain.Raffle{}
	}
	writeJSON(w, http.StatusOK, raffles, h.logger)
}

// CreateRaffle создает розыгрыш. Ошибки формы отдаются как 422 с полями.
func (h *AdminHandler) CreateRaffle(w http.ResponseWriter, r *http.Request) {
	var form catalog.RaffleForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "", h.logger)
		return
	}

	raffle, err := h.catalog.Create(r.Context(), form)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, raffle, h.logger)
}

// UpdateRaffle изменяет розыгрыш, totalNumbers из формы не применяется
func (h *AdminHandler) UpdateRaffle(w http.ResponseWriter, r *http.Request) {
	var form catalog.RaffleForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "", h.logger)
		return
	}

	raffle, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, raffle, h.logger)
}

func (h *AdminHandler) DeleteRaffle(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Sales(w http.ResponseWriter, r *http.Request) {
	h.writeRaw(w, r, h.raffles.GetRaffleSales)
}

func (h *AdminHandler) Participants(w http.ResponseWriter, r *http.Request) {
	h.writeRaw(w, r, h.raffles.GetRaffleParticipants)
}

// writeRaw отдает ответ API без изменений
func (h *AdminHandler) writeRaw(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) (json.RawMessage, error)) {
	raw, err := fetch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	writeJSON(w, http.StatusOK, raw, h.logger)
}

func (h *AdminHandler) RafflePurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.ListPurchasesByRaffle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if purchases == nil {
		purchases = []*domain.Purchase{}
	}
	writeJSON(w, http.StatusOK, purchases, h.logger)
}

func (h *AdminHandler) PendingPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.ListPendingPurchases(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if purchases == nil {
		purchases = []*domain.PendingPurchase{}
	}
	writeJSON(w, http.StatusOK, purchases, h.logger)
}

func (h *AdminHandler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "confirm", h.purchases.ConfirmPurchase)
}

func (h *AdminHandler) CancelPurchase(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "cancel", h.purchases.CancelPurchase)
}

func (h *AdminHandler) moderate(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, string) (*domain.ActionResponse, error)) {
	id := chi.URLParam(r, "id")
	resp, err := apply(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	h.logger.Info("purchase moderated",
		zap.String("purchase_id", id),
		zap.String("action", action),
	)
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// DrawPhase возвращает этап розыгрыша для текущего администратора
func (h *AdminHandler) DrawPhase(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	phase, err := h.draws.Phase(r.Context(), vid, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, drawPhaseResponse{Phase: phase}, h.logger)
}

// OpenDraw запрашивает подтверждение розыгрыша
func (h *AdminHandler) OpenDraw(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.draws.Open(r.Context(), vid, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, prompt, h.logger)
}

// ConfirmDraw проводит розыгрыш по токену подтверждения
func (h *AdminHandler) ConfirmDraw(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	var req confirmDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", h.logger)
		return
	}

	outcome, err := h.draws.Confirm(r.Context(), vid, chi.URLParam(r, "id"), req.Token)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, outcome, h.logger)
}

func (h *AdminHandler) CancelDraw(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.draws.Cancel(r.Context(), vid, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
