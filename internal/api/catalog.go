package api

import (
	"context"
	"net/http"

	"github.com/xenking/kart-storefront/internal/domain/product"
	"github.com/xenking/kart-storefront/internal/wire"
)

// ListProducts returns the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	const op = "ListProducts"
	env, err := c.call(ctx, op, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	var products []wire.Product
	if err := payload(op, env, "products", &products); err != nil {
		return nil, err
	}
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		out = append(out, convertProduct(&c.ids, p))
	}
	return out, nil
}
