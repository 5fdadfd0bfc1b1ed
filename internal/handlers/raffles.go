package handlers

import (
	"context"
	"net/http"

	"github.com/avc/rifa-storefront/internal/cart"
	"github.com/avc/rifa-storefront/internal/checkout"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/draw"
	"github.com/avc/rifa-storefront/internal/grid"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService определяет методы хранилища выбора номеров
type CartService interface {
	Get(ctx context.Context, visitorID uuid.UUID) (*cart.Selection, error)
	AddNumber(ctx context.Context, visitorID uuid.UUID, number int, raffleID string, maxNumbers int) (cart.AddResult, error)
	RemoveNumber(ctx context.Context, visitorID uuid.UUID, number int) (*cart.Selection, error)
	Clear(ctx context.Context, visitorID uuid.UUID) error
}

type RaffleHandler struct {
	raffles domain.RaffleAPI
	carts   CartService
	logger  *zap.Logger
}

func NewRaffleHandler(raffles domain.RaffleAPI, carts CartService, logger *zap.Logger) *RaffleHandler {
	return &RaffleHandler{
		raffles: raffles,
		carts:   carts,
		logger:  logger,
	}
}

// RaffleDetailResponse розыгрыш вместе с сеткой и итогом выбора посетителя
type RaffleDetailResponse struct {
	Raffle        *domain.Raffle   `json:"raffle"`
	Grid          grid.View        `json:"grid"`
	Summary       checkout.Summary `json:"summary"`
	DrawAvailable bool             `json:"drawAvailable"`
}

func (h *RaffleHandler) List(w http.ResponseWriter, r *http.Request) {
	raffles, err := h.raffles.ListRaffles(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if raffles == nil {
		raffles = []*domain.Raffle{}
	}
	writeJSON(w, http.StatusOK, raffles, h.logger)
}

func (h *RaffleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	raffle, err := h.raffles.GetRaffle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	sel, err := h.carts.Get(r.Context(), vid)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, RaffleDetailResponse{
		Raffle:        raffle,
		Grid:          raffleGrid(raffle, sel),
		Summary:       checkout.Summarize(sel, raffle),
		DrawAvailable: draw.Available(raffle),
	}, h.logger)
}

func (h *RaffleHandler) Winners(w http.ResponseWriter, r *http.Request) {
	winners, err := h.raffles.GetWinners(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if winners == nil {
		winners = []*domain.Winner{}
	}
	writeJSON(w, http.StatusOK, winners, h.logger)
}

// raffleGrid строит сетку розыгрыша; выбор закрыт для неактивного розыгрыша
func raffleGrid(raffle *domain.Raffle, sel *cart.Selection) grid.View {
	disabled := raffle.Status != domain.RaffleStatusActive
	return grid.Build(raffle.Numbers, sel, raffle.ID, raffle.MaxPerUser, disabled)
}
