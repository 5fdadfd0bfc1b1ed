package apiclient

import (
	"context"
	"net/http"

	"github.com/avc/rifa-storefront/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login аутентифицирует пользователя и возвращает access token
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSession получает пользователя текущей сессии
func (c *Client) GetSession(ctx context.Context) (*domain.SessionResponse, error) {
	var resp domain.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}
