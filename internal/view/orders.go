package view

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/session"
)

// OrdersAPI lists a user's orders.
type OrdersAPI interface {
	ListOrders(ctx context.Context, userID string) ([]order.Order, error)
}

// OrderHistory lists the session's past orders.
type OrderHistory struct {
	api     OrdersAPI
	session session.Session
	lg      *zap.Logger

	mu     sync.RWMutex
	orders []order.Order
	loaded bool
}

// NewOrderHistory creates an OrderHistory for sess.
func NewOrderHistory(a OrdersAPI, sess session.Session, lg *zap.Logger) *OrderHistory {
	return &OrderHistory{api: a, session: sess, lg: lg}
}

// Load fetches the order history. On failure the previous list is kept.
func (h *OrderHistory) Load(ctx context.Context) error {
	orders, err := h.api.ListOrders(ctx, h.session.ID)
	if err != nil {
		h.lg.Warn("Failed to load orders", zap.Error(err))
		return errors.Wrap(err, "load orders")
	}
	h.mu.Lock()
	h.orders = orders
	h.loaded = true
	h.mu.Unlock()
	return nil
}

// Loaded reports whether the history has been fetched.
func (h *OrderHistory) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loaded
}

// Orders returns the loaded orders.
func (h *OrderHistory) Orders() []order.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.orders)
}

// Render writes every order with its lines and totals.
func (h *OrderHistory) Render(w io.Writer) error {
	orders := h.Orders()
	p := &printer{w: w}
	if len(orders) == 0 {
		p.println("No orders yet")
		p.println("You haven't placed any orders yet.")
		return p.err
	}

	p.println("Your Orders")
	for _, o := range orders {
		p.println(strings.Repeat("-", 40))
		p.printf("Order #%d  %s  [%s]\n", o.Number, date(o.CreatedAt), o.Status)
		for _, it := range o.Items {
			p.printf("  %s x %d  %s each\n", it.Name, it.Quantity, money(it.Price))
		}
		p.printf("Subtotal: %s\n", money(o.Subtotal))
		if o.DiscountCode != "" {
			p.printf("Discount (%s): -%s\n", o.DiscountCode, money(o.DiscountAmount))
		}
		p.printf("Total: %s\n", money(o.TotalAmount))
		p.printf("Shipping: %s\n", o.ShippingAddress)
		p.printf("Payment: %s\n", o.PaymentMethod.Label())
		if o.GeneratedCode != "" {
			p.printf("Earned discount code: %s\n", o.GeneratedCode)
		}
	}
	return p.err
}
