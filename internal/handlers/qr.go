package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 256

var purchaseIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// QRHandler отдает QR код со ссылкой на резерв
type QRHandler struct {
	publicBaseURL string
	logger        *zap.Logger
}

func NewQRHandler(publicBaseURL string, logger *zap.Logger) *QRHandler {
	return &QRHandler{
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// ReservationLink ссылка на детали резерва, которые отдает PurchaseHandler.Get
func (h *QRHandler) ReservationLink(purchaseID string) string {
	return h.publicBaseURL + "/api/purchases/" + purchaseID
}

func (h *QRHandler) Reservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !purchaseIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "Identificador de reserva invalido", h.logger)
		return
	}

	png, err := qrcode.Encode(h.ReservationLink(id), qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("failed to encode qr code", zap.String("purchase_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "", h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Debug("failed to write qr code", zap.Error(err))
	}
}
