package apiclient

import (
	"context"
	"net/http"

	"github.com/avc/rifa-storefront/internal/domain"
)

// ListMyPurchases получает резервы авторизованного покупателя
func (c *Client) ListMyPurchases(ctx context.Context) ([]*domain.UserPurchase, error) {
	var purchases []*domain.UserPurchase
	if err := c.do(ctx, http.MethodGet, "/users/me/purchases", nil, &purchases, nil); err != nil {
		return nil, err
	}
	return purchases, nil
}
