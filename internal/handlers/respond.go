package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/avc/rifa-storefront/internal/apiclient"
	"github.com/avc/rifa-storefront/internal/domain"
	"go.uber.org/zap"
)

// Страницы, на которые перенаправляются ошибки авторизации
const (
	LoginPath = "/login"
	AdminPath = "/admin"
)

// PagePathHeader заголовок с путем страницы, с которой пришел запрос
const PagePathHeader = "X-Page-Path"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error    string             `json:"error"`
	Message  string             `json:"message"`
	Fields   domain.FieldErrors `json:"fields,omitempty"`
	Redirect string             `json:"redirect,omitempty"`
}

// writeJSON пишет JSON ответ
func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError пишет ошибку с человекочитаемым сообщением
func writeError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}, logger)
}

// writeAuthError пишет 401/403 со страницей, на которую странице нужно перейти.
// Пустой target означает, что переход не нужен.
func writeAuthError(w http.ResponseWriter, status int, target, message string, logger *zap.Logger) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{
		Error:    http.StatusText(status),
		Message:  message,
		Redirect: target,
	}, logger)
}

// pagePath определяет страницу, с которой пришел запрос
func pagePath(r *http.Request) string {
	if p := r.Header.Get(PagePathHeader); p != "" {
		return p
	}
	if ref := r.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil {
			return u.Path
		}
	}
	return r.URL.Path
}

// handleError переводит ошибку сервиса или API в HTTP ответ.
// Для 401 в теле указывается страница входа (кроме самой страницы входа),
// для 403 страница админки; переход выполняет страница.
func handleError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	message := apiclient.Message(err)

	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: "Revisa los datos del formulario",
			Fields:  fieldErrs,
		}, logger)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, message, logger)
		return
	case errors.Is(err, domain.ErrUnauthorized):
		target := LoginPath
		if pagePath(r) == LoginPath {
			target = ""
		}
		writeAuthError(w, http.StatusUnauthorized, target, message, logger)
		return
	case errors.Is(err, domain.ErrForbidden):
		writeAuthError(w, http.StatusForbidden, AdminPath, message, logger)
		return
	case errors.Is(err, domain.ErrEmptySelection):
		writeError(w, http.StatusBadRequest, "No hay numeros seleccionados", logger)
		return
	case errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrDrawInFlight):
		writeError(w, http.StatusConflict, "La operacion ya esta en curso", logger)
		return
	case errors.Is(err, domain.ErrDrawUnavailable):
		writeError(w, http.StatusConflict, "El sorteo no esta disponible para esta rifa", logger)
		return
	case errors.Is(err, domain.ErrDrawNotConfirmed):
		writeError(w, http.StatusPreconditionRequired, "Confirma el sorteo antes de realizarlo", logger)
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 0, apiErr.StatusCode >= http.StatusInternalServerError:
			logger.Warn("upstream api error", zap.Int("status", apiErr.StatusCode), zap.String("message", message))
			writeError(w, http.StatusBadGateway, message, logger)
		default:
			writeError(w, apiErr.StatusCode, message, logger)
		}
		return
	}

	logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, apiclient.DefaultErrorMessage, logger)
}
