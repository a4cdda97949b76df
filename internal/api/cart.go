package api

import (
	"context"
	"net/http"

	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/wire"
)

// GetCart returns the cart for userID.
func (c *Client) GetCart(ctx context.Context, userID string) (cart.Cart, error) {
	const op = "GetCart"
	env, err := c.call(ctx, op, http.MethodGet, "/cart/"+pathEscape(userID), nil)
	if err != nil {
		return cart.Cart{}, err
	}
	return c.decodeCart(op, env)
}

// AddToCart adds quantity units of productID and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) (cart.Cart, error) {
	const op = "AddToCart"
	env, err := c.call(ctx, op, http.MethodPost, "/cart/add", wire.AddToCartReq{
		UserID:    userID,
		ProductID: c.ids.lookup(productID),
		Quantity:  quantity,
	})
	if err != nil {
		return cart.Cart{}, err
	}
	return c.decodeCart(op, env)
}

// UpdateItem sets the quantity of productID. The response carries no cart.
func (c *Client) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	_, err := c.call(ctx, "UpdateItem", http.MethodPut, "/cart/"+pathEscape(userID)+"/item", wire.UpdateItemReq{
		ProductID: c.ids.lookup(productID),
		Quantity:  quantity,
	})
	return err
}

// ApplyDiscount applies code to the cart of userID.
func (c *Client) ApplyDiscount(ctx context.Context, userID, code string) error {
	_, err := c.call(ctx, "ApplyDiscount", http.MethodPost, "/cart/"+pathEscape(userID)+"/apply-discount", wire.ApplyDiscountReq{
		Code: code,
	})
	return err
}

// RemoveDiscount removes the active discount from the cart of userID.
func (c *Client) RemoveDiscount(ctx context.Context, userID string) error {
	_, err := c.call(ctx, "RemoveDiscount", http.MethodDelete, "/cart/"+pathEscape(userID)+"/discount", nil)
	return err
}

func (c *Client) decodeCart(op string, env *wire.Envelope) (cart.Cart, error) {
	var wc wire.Cart
	if err := payload(op, env, "cart", &wc); err != nil {
		return cart.Cart{}, err
	}
	return convertCart(&c.ids, wc), nil
}
