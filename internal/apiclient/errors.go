package apiclient

import (
	"errors"
	"net/http"

	"github.com/avc/rifa-storefront/internal/domain"
)

// DefaultErrorMessage используется, когда API не вернул понятного сообщения
const DefaultErrorMessage = "Error inesperado"

// APIError представляет нормализованную ошибку удаленного API
type APIError struct {
	StatusCode int    // 0 для транспортных ошибок
	Message    string // Человекочитаемое сообщение для пользователя
	cause      error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap позволяет сравнивать ошибку с sentinel ошибками домена через errors.Is
func (e *APIError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}

	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

// Message извлекает сообщение для пользователя из любой ошибки
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return DefaultErrorMessage
}
