package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/avc/rifa-storefront/internal/cart"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/grid"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts   CartService
	raffles domain.RaffleAPI
	logger  *zap.Logger
}

func NewCartHandler(carts CartService, raffles domain.RaffleAPI, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		raffles: raffles,
		logger:  logger,
	}
}

type addNumberRequest struct {
	Number     *int   `json:"number"`
	RaffleID   string `json:"raffleId"`
	MaxNumbers int    `json:"maxNumbers"`
}

type toggleRequest struct {
	Number   *int   `json:"number"`
	RaffleID string `json:"raffleId"`
}

type cartResponse struct {
	Cart *cart.Selection `json:"cart"`
}

type addNumberResponse struct {
	Added    bool            `json:"added"`
	Switched bool            `json:"switched"`
	Cart     *cart.Selection `json:"cart"`
}

type toggleResponse struct {
	Action   grid.Action     `json:"action"`
	Added    bool            `json:"added"`
	Switched bool            `json:"switched"`
	Cart     *cart.Selection `json:"cart"`
	Grid     grid.View       `json:"grid"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	sel, err := h.carts.Get(r.Context(), vid)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: sel}, h.logger)
}

// AddNumber добавляет номер. Отказ (лимит или повтор) не является ошибкой,
// результат передается в поле added.
func (h *CartHandler) AddNumber(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	var req addNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number == nil || req.RaffleID == "" {
		writeError(w, http.StatusBadRequest, "Se requiere numero y rifa", h.logger)
		return
	}

	res, err := h.carts.AddNumber(r.Context(), vid, *req.Number, req.RaffleID, req.MaxNumbers)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, addNumberResponse{
		Added:    res.Added,
		Switched: res.Switched,
		Cart:     res.Selection,
	}, h.logger)
}

func (h *CartHandler) RemoveNumber(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Numero invalido", h.logger)
		return
	}

	sel, err := h.carts.RemoveNumber(r.Context(), vid, number)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: sel}, h.logger)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.carts.Clear(r.Context(), vid); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle обрабатывает клик по ячейке сетки: статус номера берется
// из свежих данных розыгрыша, в ответе перестроенная сетка.
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	vid, ok := visitorID(w, r, h.logger)
	if !ok {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number == nil || req.RaffleID == "" {
		writeError(w, http.StatusBadRequest, "Se requiere numero y rifa", h.logger)
		return
	}

	raffle, err := h.raffles.GetRaffle(r.Context(), req.RaffleID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	sel, err := h.carts.Get(r.Context(), vid)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	disabled := raffle.Status != domain.RaffleStatusActive
	resp := toggleResponse{
		Action: grid.Toggle(raffle.Numbers, sel, raffle.ID, *req.Number, disabled),
		Cart:   sel,
	}

	switch resp.Action {
	case grid.ActionAdd:
		res, err := h.carts.AddNumber(r.Context(), vid, *req.Number, raffle.ID, raffle.MaxPerUser)
		if err != nil {
			handleError(w, r, err, h.logger)
			return
		}
		resp.Added, resp.Switched, resp.Cart = res.Added, res.Switched, res.Selection
	case grid.ActionRemove:
		updated, err := h.carts.RemoveNumber(r.Context(), vid, *req.Number)
		if err != nil {
			handleError(w, r, err, h.logger)
			return
		}
		resp.Cart = updated
	}

	resp.Grid = raffleGrid(raffle, resp.Cart)
	writeJSON(w, http.StatusOK, resp, h.logger)
}
