package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avc/rifa-storefront/internal/domain"
)

// CreatePurchase создает резерв номеров. idempotencyKey передается в заголовке,
// если не пустой.
func (c *Client) CreatePurchase(ctx context.Context, req domain.PurchaseRequest, idempotencyKey string) (*domain.PurchaseResponse, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyKeyHeader: idempotencyKey}
	}

	var resp domain.PurchaseResponse
	if err := c.do(ctx, http.MethodPost, "/purchases", req, &resp, headers); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPurchase получает резерв по ID
func (c *Client) GetPurchase(ctx context.Context, id string) (*domain.Purchase, error) {
	var purchase domain.Purchase
	if err := c.do(ctx, http.MethodGet, "/purchases/"+url.PathEscape(id), nil, &purchase, nil); err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListPendingPurchases получает ожидающие подтверждения резервы
func (c *Client) ListPendingPurchases(ctx context.Context) ([]*domain.PendingPurchase, error) {
	var purchases []*domain.PendingPurchase
	if err := c.do(ctx, http.MethodGet, "/purchases/pending", nil, &purchases, nil); err != nil {
		return nil, err
	}
	return purchases, nil
}

// ListPurchasesByRaffle получает резервы розыгрыша
func (c *Client) ListPurchasesByRaffle(ctx context.Context, raffleID string) ([]*domain.Purchase, error) {
	var purchases []*domain.Purchase
	if err := c.do(ctx, http.MethodGet, "/purchases/raffle/"+url.PathEscape(raffleID), nil, &purchases, nil); err != nil {
		return nil, err
	}
	return purchases, nil
}

// ConfirmPurchase подтверждает ожидающий резерв
func (c *Client) ConfirmPurchase(ctx context.Context, id string) (*domain.ActionResponse, error) {
	var resp domain.ActionResponse
	if err := c.do(ctx, http.MethodPatch, "/purchases/"+url.PathEscape(id)+"/confirm", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelPurchase отменяет ожидающий резерв
func (c *Client) CancelPurchase(ctx context.Context, id string) (*domain.ActionResponse, error) {
	var resp domain.ActionResponse
	if err := c.do(ctx, http.MethodPatch, "/purchases/"+url.PathEscape(id)+"/cancel", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}
