package api

import (
	"context"
	"net/http"

	"github.com/xenking/kart-storefront/internal/domain/admin"
	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/wire"
)

// AdminStats returns store-wide aggregates.
func (c *Client) AdminStats(ctx context.Context) (admin.Stats, error) {
	const op = "AdminStats"
	env, err := c.call(ctx, op, http.MethodGet, "/admin/stats", nil)
	if err != nil {
		return admin.Stats{}, err
	}
	var s wire.Stats
	if err := payload(op, env, "stats", &s); err != nil {
		return admin.Stats{}, err
	}
	return convertStats(s), nil
}

// AdminOrders returns every order in the store, oldest first.
func (c *Client) AdminOrders(ctx context.Context) ([]order.Order, error) {
	const op = "AdminOrders"
	env, err := c.call(ctx, op, http.MethodGet, "/admin/orders", nil)
	if err != nil {
		return nil, err
	}
	var orders []wire.Order
	if err := payload(op, env, "orders", &orders); err != nil {
		return nil, err
	}
	return convertOrders(&c.ids, orders), nil
}

// GenerateDiscount mints a new discount code and returns it.
func (c *Client) GenerateDiscount(ctx context.Context) (string, error) {
	const op = "GenerateDiscount"
	env, err := c.call(ctx, op, http.MethodPost, "/admin/generate-discount", nil)
	if err != nil {
		return "", err
	}
	var code string
	if err := payload(op, env, "code", &code); err != nil {
		return "", err
	}
	return code, nil
}

// SetNthOrder changes the order interval that earns a discount code and
// returns the server's confirmation message.
func (c *Client) SetNthOrder(ctx context.Context, n int) (string, error) {
	env, err := c.call(ctx, "SetNthOrder", http.MethodPut, "/admin/nth-order", wire.NthOrderReq{N: n})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
