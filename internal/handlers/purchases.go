package handlers

import (
	"net/http"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PurchaseHandler отдает резервы покупателю
type PurchaseHandler struct {
	purchases domain.PurchaseAPI
	account   domain.AccountAPI
	logger    *zap.Logger
}

func NewPurchaseHandler(purchases domain.PurchaseAPI, account domain.AccountAPI, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		account:   account,
		logger:    logger,
	}
}

// Get отдает детали резерва. На этот адрес ведет QR код резерва.
func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !purchaseIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "Identificador de reserva invalido", h.logger)
		return
	}

	purchase, err := h.purchases.GetPurchase(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, purchase, h.logger)
}

// Mine отдает резервы авторизованного покупателя
func (h *PurchaseHandler) Mine(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.account.ListMyPurchases(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if purchases == nil {
		purchases = []*domain.UserPurchase{}
	}
	writeJSON(w, http.StatusOK, purchases, h.logger)
}
