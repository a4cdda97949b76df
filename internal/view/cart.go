package view

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/store"
)

// Inline messages shown under the cart.
const (
	MsgEnterDiscountCode = "Please enter a discount code"
	MsgDiscountApplied   = "Discount applied successfully!"
	MsgDiscountFailed    = "Failed to apply discount"
	MsgDiscountError     = "Error applying discount"
	MsgDiscountActive    = "A discount is already applied"
	MsgDiscountRemoved   = "Discount removed"
	MsgRemoveFailed      = "Failed to remove discount"
)

// CartView shows the cart and edits it through the store.
type CartView struct {
	store CartStore
	lg    *zap.Logger

	mu      sync.Mutex
	input   string
	message string
}

// NewCartView creates a CartView.
func NewCartView(s CartStore, lg *zap.Logger) *CartView {
	return &CartView{store: s, lg: lg}
}

// Increment raises the quantity of productID by one.
func (v *CartView) Increment(ctx context.Context, productID string) error {
	item, ok := v.store.Cart().Item(productID)
	if !ok {
		return errors.Wrapf(ErrUnknownItem, "%q", productID)
	}
	return v.store.UpdateItemQuantity(ctx, productID, item.Quantity+1)
}

// Decrement lowers the quantity of productID by one. At quantity 1 the
// control is disabled and nothing is sent.
func (v *CartView) Decrement(ctx context.Context, productID string) error {
	item, ok := v.store.Cart().Item(productID)
	if !ok {
		return errors.Wrapf(ErrUnknownItem, "%q", productID)
	}
	if item.Quantity <= 1 {
		return ErrMinQuantity
	}
	return v.store.UpdateItemQuantity(ctx, productID, item.Quantity-1)
}

// DiscountEnabled reports whether a code may be entered.
func (v *CartView) DiscountEnabled() bool {
	return !v.store.Cart().HasDiscount()
}

// SetDiscountInput sets the pending discount code.
func (v *CartView) SetDiscountInput(code string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = code
}

// DiscountInput returns the pending discount code.
func (v *CartView) DiscountInput() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

// Message returns the latest inline message.
func (v *CartView) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

// ApplyDiscount submits the pending code and returns the resulting message.
// The input is cleared on success.
func (v *CartView) ApplyDiscount(ctx context.Context) (string, error) {
	code := strings.TrimSpace(v.DiscountInput())
	if code == "" {
		return v.setMessage(MsgEnterDiscountCode), ErrEmptyDiscountCode
	}
	if !v.DiscountEnabled() {
		return v.setMessage(MsgDiscountActive), ErrDiscountActive
	}

	err := v.store.ApplyDiscount(ctx, code)
	switch {
	case err == nil:
		v.mu.Lock()
		v.input = ""
		v.message = MsgDiscountApplied
		v.mu.Unlock()
		return MsgDiscountApplied, nil
	case errors.Is(err, store.ErrDiscountActive):
		return v.setMessage(MsgDiscountActive), ErrDiscountActive
	case errors.Is(err, store.ErrEmptyCode):
		return v.setMessage(MsgEnterDiscountCode), ErrEmptyDiscountCode
	case errors.Is(err, api.ErrRejected):
		return v.setMessage(rejectionOr(err, MsgDiscountFailed)), err
	default:
		v.lg.Warn("Error applying discount", zap.Error(err))
		return v.setMessage(MsgDiscountError), err
	}
}

// RemoveDiscount removes the active discount and returns the resulting
// message.
func (v *CartView) RemoveDiscount(ctx context.Context) (string, error) {
	if err := v.store.RemoveDiscount(ctx); err != nil {
		v.lg.Warn("Error removing discount", zap.Error(err))
		return v.setMessage(MsgRemoveFailed), err
	}
	return v.setMessage(MsgDiscountRemoved), nil
}

func (v *CartView) setMessage(msg string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = msg
	return msg
}

// Render writes the cart with its totals and the latest message.
func (v *CartView) Render(w io.Writer) error {
	c := v.store.Cart()
	p := &printer{w: w}
	if c.IsEmpty() {
		p.println("Your Cart is Empty")
		p.println("Add some products to get started.")
		return p.err
	}

	p.println("Shopping Cart")
	tw := newTable(w)
	tp := &printer{w: tw}
	tp.printf("ID\tITEM\tPRICE\tQTY\tTOTAL\n")
	for _, it := range c.Items {
		tp.printf("%s\t%s\t%s\t%d\t%s\n", it.ProductID, it.Name, money(it.Price), it.Quantity, money(it.LineTotal))
	}
	if tp.err != nil {
		return tp.err
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p.printf("Subtotal: %s\n", money(c.Subtotal))
	if c.HasDiscount() {
		p.printf("Discount (%s): -%s\n", c.DiscountCode, money(c.DiscountAmount))
	}
	p.printf("Total: %s\n", money(c.Total))
	if msg := v.Message(); msg != "" {
		p.println(msg)
	}
	return p.err
}
