package view

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/domain/order"
)

// Checkout messages.
const (
	MsgEnterAddress   = "Please enter shipping address"
	MsgCheckoutFailed = "Checkout failed"
	MsgCheckoutRetry  = "Checkout failed. Please try again."
)

// CheckoutAPI places orders.
type CheckoutAPI interface {
	Checkout(ctx context.Context, req api.CheckoutRequest) (order.Order, error)
}

// CheckoutState is a step of the checkout flow.
type CheckoutState int

// Checkout states.
const (
	Editing CheckoutState = iota
	Submitting
	Completed
)

func (s CheckoutState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Checkout drives order placement: Editing, then Submitting, then Completed.
// A failed submission returns to Editing.
type Checkout struct {
	api   CheckoutAPI
	store CartStore
	lg    *zap.Logger

	mu      sync.Mutex
	state   CheckoutState
	address string
	payment order.PaymentMethod
	placed  order.Order
	message string
}

// NewCheckout creates a Checkout in the Editing state.
func NewCheckout(a CheckoutAPI, s CartStore, lg *zap.Logger) *Checkout {
	return &Checkout{api: a, store: s, lg: lg, payment: order.PaymentCreditCard}
}

// State returns the current step.
func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetAddress sets the shipping address.
func (c *Checkout) SetAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.address = address
}

// Address returns the shipping address.
func (c *Checkout) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

// SetPayment selects the payment method by its wire name.
func (c *Checkout) SetPayment(method string) error {
	m, err := order.ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payment = m
	return nil
}

// Payment returns the selected payment method.
func (c *Checkout) Payment() order.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payment
}

// Message returns the latest error message, if any.
func (c *Checkout) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// CanSubmit reports whether the place order action is enabled.
func (c *Checkout) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Editing && strings.TrimSpace(c.address) != "" && !c.store.Cart().IsEmpty()
}

// Submit places the order. It returns ErrSubmitInProgress without sending
// anything while a submission is outstanding.
func (c *Checkout) Submit(ctx context.Context) (order.Order, error) {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return order.Order{}, ErrSubmitInProgress
	case Completed:
		c.mu.Unlock()
		return order.Order{}, ErrCheckoutCompleted
	}
	if strings.TrimSpace(c.address) == "" {
		c.message = MsgEnterAddress
		c.mu.Unlock()
		return order.Order{}, ErrAddressRequired
	}
	if c.store.Cart().IsEmpty() {
		c.mu.Unlock()
		return order.Order{}, ErrCartEmpty
	}
	c.state = Submitting
	c.message = ""
	req := api.CheckoutRequest{
		UserID:          c.store.Session().ID,
		ShippingAddress: c.address,
		PaymentMethod:   c.payment,
	}
	c.mu.Unlock()

	placed, err := c.api.Checkout(ctx, req)
	// The server empties the cart on success.
	if rerr := c.store.Reconcile(ctx); rerr != nil {
		c.lg.Debug("Cart reconcile after checkout failed", zap.Error(rerr))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Editing
		if errors.Is(err, api.ErrRejected) {
			c.message = rejectionOr(err, MsgCheckoutFailed)
		} else {
			c.message = MsgCheckoutRetry
		}
		c.lg.Warn("Checkout failed", zap.Error(err))
		return order.Order{}, err
	}
	c.state = Completed
	c.placed = placed
	c.lg.Info("Order placed",
		zap.String("order_id", placed.ID),
		zap.Int("order_number", placed.Number),
	)
	return placed, nil
}

// Order returns the placed order while in the Completed state.
func (c *Checkout) Order() (order.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placed, c.state == Completed
}

// Reset discards the completed order and starts a new checkout.
func (c *Checkout) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Editing
	c.placed = order.Order{}
	c.address = ""
	c.payment = order.PaymentCreditCard
	c.message = ""
}

// Render writes the order form or, once completed, the order confirmation.
func (c *Checkout) Render(w io.Writer) error {
	if o, ok := c.Order(); ok {
		return renderCompleted(w, o)
	}

	cart := c.store.Cart()
	p := &printer{w: w}
	p.println("Checkout")
	p.println("Order Summary")
	for _, it := range cart.Items {
		p.printf("  %s x %d  %s\n", it.Name, it.Quantity, money(it.LineTotal))
	}
	p.printf("Total: %s\n", money(cart.Total))

	address := c.Address()
	if address == "" {
		address = "(not set)"
	}
	p.printf("Shipping Address: %s\n", address)
	p.printf("Payment Method: %s\n", c.Payment().Label())

	switch {
	case c.State() == Submitting:
		p.println("Processing...")
	case cart.IsEmpty():
		p.println("Your cart is empty.")
	case c.CanSubmit():
		p.println("Ready to place order.")
	}
	if msg := c.Message(); msg != "" {
		p.println(msg)
	}
	return p.err
}

func renderCompleted(w io.Writer, o order.Order) error {
	p := &printer{w: w}
	p.println("Order Successful!")
	p.printf("Order Number: #%d\n", o.Number)
	p.printf("Order ID: %s\n", o.ID)
	p.printf("Total Amount: %s\n", money(o.TotalAmount))
	if o.DiscountCode != "" {
		p.printf("Discount Applied: %s\n", o.DiscountCode)
	}
	p.printf("Shipping Address: %s\n", o.ShippingAddress)
	p.printf("Status: %s\n", o.Status)
	if o.GeneratedCode != "" {
		p.println("Congratulations!")
		p.println("You've received a 10% discount code for your next purchase:")
		p.printf("  %s\n", o.GeneratedCode)
		p.println("This code can be used once for your next order.")
	}
	return p.err
}
