package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avc/rifa-storefront/internal/checkout"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService определяет методы оформления резерва
type CheckoutService interface {
	Submit(ctx context.Context, visitorID uuid.UUID, raffleID string, info checkout.BuyerInfo, user *domain.AuthUser) (*checkout.Receipt, error)
	State(visitorID uuid.UUID) checkout.Status
}

type CheckoutHandler struct {
	checkouts CheckoutService
	carts     CartService
	raffles   domain.RaffleAPI
	users     UserResolver
	logger    *zap.Logger
}

func NewCheckoutHandler(checkouts CheckoutService, carts CartService, raffles domain.RaffleAPI, users UserResolver, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
		carts:     carts,
		raffles:   raffles,
		users:     users,
		logger:    logger,
	}
}

type checkoutRequest struct {
	RaffleID string `json:"raffleId"`
	checkout.BuyerInfo
}

// CheckoutFormResponse данные формы оформления
type CheckoutFormResponse struct {
	Status  checkout.Status    `json:"status"`
	Summary checkout.Summary   `json:"summary"`
	Prefill checkout.BuyerInfo `json:"prefill"`
}

// Form возвращает итог выбора и данные для предзаполнения формы
func (h *CheckoutHandler) Form(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	raffle, err := h.raffles.GetRaffle(r.Context(), chi.URLParam(r, "raffleId"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	sel, err := h.carts.Get(r.Context(), vid)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutFormResponse{
		Status:  h.checkouts.State(vid),
		Summary: checkout.Summarize(sel, raffle),
		Prefill: checkout.Prefill(h.currentUser(r)),
	}, h.logger)
}

// Submit отправляет резерв выбранных номеров
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", h.logger)
		return
	}
	if req.RaffleID == "" {
		writeError(w, http.StatusBadRequest, "Se requiere la rifa", h.logger)
		return
	}

	receipt, err := h.checkouts.Submit(r.Context(), vid, req.RaffleID, req.BuyerInfo, h.currentUser(r))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, receipt, h.logger)
}

// currentUser возвращает пользователя сессии; резерв возможен и без входа
func (h *CheckoutHandler) currentUser(r *http.Request) *domain.AuthUser {
	user, err := h.users.CurrentUser(r.Context())
	if err != nil {
		h.logger.Debug("checkout without session user", zap.Error(err))
		return nil
	}
	return user
}
