// Package view holds the screen models of the storefront: catalog, cart,
// checkout, order history and admin dashboard.
//
// Views never edit the cart themselves. Every handler goes through the
// CartStore, which reconciles with the server, and renders whatever the store
// holds afterwards. Failures are logged and turned into inline messages; none
// of them end the session.
package view

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/session"
)

// Errors returned for actions rejected before any request is sent.
var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrUnknownItem       = errors.New("item is not in the cart")
	ErrMinQuantity       = errors.New("quantity is already at the minimum")
	ErrDiscountActive    = errors.New("a discount is already applied")
	ErrEmptyDiscountCode = errors.New("discount code is empty")
	ErrAddressRequired   = errors.New("shipping address is required")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrSubmitInProgress  = errors.New("checkout is already being submitted")
	ErrCheckoutCompleted = errors.New("checkout already completed")
	ErrInvalidNthOrder   = errors.New("nth order must be a positive integer")
)

// CartStore is the cart state the views act upon.
type CartStore interface {
	Session() session.Session
	Cart() cart.Cart
	AddItem(ctx context.Context, productID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, productID string, quantity int) error
	ApplyDiscount(ctx context.Context, code string) error
	RemoveDiscount(ctx context.Context) error
	Reconcile(ctx context.Context) error
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

// rejectionOr returns the server's reason for err, or fallback.
func rejectionOr(err error, fallback string) string {
	if reason, ok := api.Reason(err); ok {
		return reason
	}
	return fallback
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// printer accumulates the first write error so render code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}
