package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/domain/order"
)

func TestCheckoutCanSubmit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := NewCheckout(env.client, env.store, zap.NewNop())

	assert.Equal(t, Editing, c.State())
	assert.False(t, c.CanSubmit(), "empty cart, blank address")

	c.SetAddress("1 Main St")
	assert.False(t, c.CanSubmit(), "empty cart")
	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrCartEmpty)

	require.NoError(t, env.store.AddItem(ctx, "1", 1))
	c.SetAddress("   ")
	assert.False(t, c.CanSubmit(), "blank address")
	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrAddressRequired)
	assert.Equal(t, MsgEnterAddress, c.Message())
	assert.Equal(t, Editing, c.State())

	c.SetAddress("1 Main St")
	assert.True(t, c.CanSubmit())
}

func TestCheckoutScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := NewCheckout(env.client, env.store, zap.NewNop())

	require.NoError(t, env.store.AddItem(ctx, "1", 2))
	require.NoError(t, env.store.ApplyDiscount(ctx, "SAVE10"))
	total := env.store.Cart().Total

	c.SetAddress("1 Main St")
	require.NoError(t, c.SetPayment("paypal"))
	require.ErrorIs(t, c.SetPayment("cash"), order.ErrUnknownPaymentMethod)
	assert.Equal(t, order.PaymentPayPal, c.Payment())

	placed, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, Completed, c.State())
	assert.True(t, total.Equal(placed.TotalAmount))
	assert.Equal(t, order.PaymentPayPal, placed.PaymentMethod)
	assert.True(t, env.store.Cart().IsEmpty(), "cart reconciled after checkout")
	assert.False(t, c.CanSubmit())

	got, ok := c.Order()
	require.True(t, ok)
	assert.Equal(t, placed.ID, got.ID)

	out := render(t, c)
	assert.Equal(t, 1, strings.Count(out, "#1"), out)
	assert.Contains(t, out, "Order Successful!")
	assert.Contains(t, out, "Discount Applied: SAVE10")

	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrCheckoutCompleted)

	c.Reset()
	assert.Equal(t, Editing, c.State())
	assert.Empty(t, c.Address())
	assert.Equal(t, order.PaymentCreditCard, c.Payment())
	_, ok = c.Order()
	assert.False(t, ok)
	assert.NotContains(t, render(t, c), "#1")
}

func TestCheckoutGeneratedCode(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.state.SetNthOrder(1))
	c := NewCheckout(env.client, env.store, zap.NewNop())

	require.NoError(t, env.store.AddItem(ctx, "2", 1))
	c.SetAddress("1 Main St")
	placed, err := c.Submit(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, placed.GeneratedCode)

	out := render(t, c)
	assert.Equal(t, 1, strings.Count(out, placed.GeneratedCode))
	assert.Contains(t, out, "10% discount code")
}

// blockingCheckout holds Checkout calls until release is closed.
type blockingCheckout struct {
	started chan struct{}
	release chan struct{}
	calls   int
	err     error
}

func (b *blockingCheckout) Checkout(ctx context.Context, req api.CheckoutRequest) (order.Order, error) {
	b.calls++
	close(b.started)
	<-b.release
	if b.err != nil {
		return order.Order{}, b.err
	}
	return order.Order{ID: "o-1", Number: 7, UserID: req.UserID, ShippingAddress: req.ShippingAddress}, nil
}

func TestCheckoutDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.store.AddItem(ctx, "1", 1))

	fake := &blockingCheckout{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCheckout(fake, env.store, zap.NewNop())
	c.SetAddress("1 Main St")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx)
		done <- err
	}()

	select {
	case <-fake.started:
	case <-time.After(5 * time.Second):
		t.Fatal("checkout was not submitted")
	}
	assert.Equal(t, Submitting, c.State())
	assert.False(t, c.CanSubmit())

	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Contains(t, render(t, c), "Processing...")

	close(fake.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, Completed, c.State())
}

func TestCheckoutSendsAddressAsTyped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.store.AddItem(ctx, "1", 1))

	fake := &blockingCheckout{started: make(chan struct{}), release: make(chan struct{})}
	close(fake.release)
	c := NewCheckout(fake, env.store, zap.NewNop())
	c.SetAddress("  1 Main St\n")

	placed, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "  1 Main St\n", placed.ShippingAddress)
}

func TestCheckoutFailureReturnsToEditing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"RejectedWithReason", &api.RejectedError{Op: "Checkout", Reason: "Cart is empty"}, "Cart is empty"},
		{"RejectedWithoutReason", &api.RejectedError{Op: "Checkout"}, MsgCheckoutFailed},
		{"Network", &api.NetworkError{Op: "Checkout", Err: errors.New("refused")}, MsgCheckoutRetry},
		{"Malformed", &api.MalformedError{Op: "Checkout", Err: errors.New("bad json")}, MsgCheckoutRetry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			require.NoError(t, env.store.AddItem(ctx, "1", 1))

			fake := &blockingCheckout{started: make(chan struct{}), release: make(chan struct{}), err: tt.err}
			close(fake.release)
			c := NewCheckout(fake, env.store, zap.NewNop())
			c.SetAddress("1 Main St")

			_, err := c.Submit(ctx)
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, Editing, c.State())
			assert.Equal(t, tt.msg, c.Message())
			assert.True(t, c.CanSubmit(), "can retry manually")
			assert.Contains(t, render(t, c), tt.msg)
		})
	}
}
