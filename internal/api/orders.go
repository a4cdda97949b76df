package api

import (
	"context"
	"net/http"

	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/wire"
)

// ListOrders returns the order history of userID.
func (c *Client) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	const op = "ListOrders"
	env, err := c.call(ctx, op, http.MethodGet, "/orders/"+pathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var orders []wire.Order
	if err := payload(op, env, "orders", &orders); err != nil {
		return nil, err
	}
	return convertOrders(&c.ids, orders), nil
}
