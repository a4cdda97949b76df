package api

import (
	"context"
	"net/http"

	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/wire"
)

// CheckoutRequest describes an order placement.
type CheckoutRequest struct {
	UserID          string
	ShippingAddress string
	PaymentMethod   order.PaymentMethod
}

// Checkout places an order for the current cart of req.UserID.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (order.Order, error) {
	const op = "Checkout"
	env, err := c.call(ctx, op, http.MethodPost, "/checkout", wire.CheckoutReq{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   string(req.PaymentMethod),
	})
	if err != nil {
		return order.Order{}, err
	}
	var o wire.Order
	if err := payload(op, env, "order", &o); err != nil {
		return order.Order{}, err
	}
	return convertOrder(&c.ids, o), nil
}
