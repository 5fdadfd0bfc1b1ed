package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/avc/rifa-storefront/internal/domain"
)

// ListRaffles получает публичные розыгрыши
func (c *Client) ListRaffles(ctx context.Context) ([]*domain.Raffle, error) {
	var raffles []*domain.Raffle
	if err := c.do(ctx, http.MethodGet, "/raffles", nil, &raffles, nil); err != nil {
		return nil, err
	}
	return raffles, nil
}

// ListAdminRaffles получает розыгрыши магазина текущего администратора
func (c *Client) ListAdminRaffles(ctx context.Context) ([]*domain.Raffle, error) {
	var raffles []*domain.Raffle
	if err := c.do(ctx, http.MethodGet, "/raffles/admin", nil, &raffles, nil); err != nil {
		return nil, err
	}
	return raffles, nil
}

// GetRaffle получает розыгрыш вместе с номерами
func (c *Client) GetRaffle(ctx context.Context, id string) (*domain.Raffle, error) {
	var raffle domain.Raffle
	if err := c.do(ctx, http.MethodGet, "/raffles/"+url.PathEscape(id), nil, &raffle, nil); err != nil {
		return nil, err
	}
	return &raffle, nil
}

// GetWinners получает публичный список победителей
func (c *Client) GetWinners(ctx context.Context) ([]*domain.Winner, error) {
	var winners []*domain.Winner
	if err := c.do(ctx, http.MethodGet, "/raffles/winners", nil, &winners, nil); err != nil {
		return nil, err
	}
	return winners, nil
}

// GetRaffleSales получает статистику продаж розыгрыша (формат определяет API)
func (c *Client) GetRaffleSales(ctx context.Context, id string) (json.RawMessage, error) {
	var sales json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/raffles/"+url.PathEscape(id)+"/sales", nil, &sales, nil); err != nil {
		return nil, err
	}
	return sales, nil
}

// GetRaffleParticipants получает участников розыгрыша (формат определяет API)
func (c *Client) GetRaffleParticipants(ctx context.Context, id string) (json.RawMessage, error) {
	var participants json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/raffles/"+url.PathEscape(id)+"/participants", nil, &participants, nil); err != nil {
		return nil, err
	}
	return participants, nil
}

// PerformDraw запускает необратимый розыгрыш на стороне API
func (c *Client) PerformDraw(ctx context.Context, id string) (*domain.DrawResult, error) {
	var result domain.DrawResult
	if err := c.do(ctx, http.MethodPost, "/raffles/"+url.PathEscape(id)+"/draw", nil, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateRaffle создает розыгрыш в магазине администратора
func (c *Client) CreateRaffle(ctx context.Context, in domain.RaffleInput) (*domain.Raffle, error) {
	var raffle domain.Raffle
	if err := c.do(ctx, http.MethodPost, "/raffles", in, &raffle, nil); err != nil {
		return nil, err
	}
	return &raffle, nil
}

// UpdateRaffle изменяет розыгрыш. totalNumbers в тело не попадает.
func (c *Client) UpdateRaffle(ctx context.Context, id string, in domain.RaffleInput) (*domain.Raffle, error) {
	in.TotalNumbers = nil

	var raffle domain.Raffle
	if err := c.do(ctx, http.MethodPatch, "/raffles/"+url.PathEscape(id), in, &raffle, nil); err != nil {
		return nil, err
	}
	return &raffle, nil
}

// DeleteRaffle удаляет розыгрыш
func (c *Client) DeleteRaffle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/raffles/"+url.PathEscape(id), nil, nil, nil)
}
