package store

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/session"
)

var errDown = errors.New("connection refused")

// fakeAPI is an in-memory server cart with a 10% SAVE10 code.
type fakeAPI struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	qty    map[string]int
	order  []string
	code   string

	calls map[string]int

	failGet    error
	failUpdate error
	failApply  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		prices: map[string]decimal.Decimal{
			"1": decimal.RequireFromString("9.99"),
			"2": decimal.RequireFromString("25"),
		},
		qty:   map[string]int{},
		calls: map[string]int{},
	}
}

func (f *fakeAPI) snapshot() cart.Cart {
	var c cart.Cart
	for _, id := range f.order {
		q := f.qty[id]
		line := f.prices[id].Mul(decimal.NewFromInt(int64(q)))
		c.Items = append(c.Items, cart.LineItem{ProductID: id, Name: "P" + id, Price: f.prices[id], Quantity: q, LineTotal: line})
		c.Subtotal = c.Subtotal.Add(line)
		c.TotalItems += q
	}
	c.Total = c.Subtotal
	if f.code != "" {
		c.DiscountCode = f.code
		c.DiscountAmount = c.Subtotal.Mul(decimal.RequireFromString("0.1")).Round(2)
		c.Total = c.Subtotal.Sub(c.DiscountAmount)
	}
	return c
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) GetCart(_ context.Context, _ string) (cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["get"]++
	if f.failGet != nil {
		return cart.Cart{}, f.failGet
	}
	return f.snapshot(), nil
}

func (f *fakeAPI) AddToCart(_ context.Context, _, productID string, quantity int) (cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["add"]++
	if _, ok := f.prices[productID]; !ok {
		return cart.Cart{}, errors.New("Product not found")
	}
	if _, ok := f.qty[productID]; !ok {
		f.order = append(f.order, productID)
	}
	f.qty[productID] += quantity
	return f.snapshot(), nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, _, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.failUpdate != nil {
		return f.failUpdate
	}
	f.qty[productID] = quantity
	return nil
}

func (f *fakeAPI) ApplyDiscount(_ context.Context, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["apply"]++
	if f.failApply != nil {
		return f.failApply
	}
	if code != "SAVE10" {
		return errors.New("Invalid discount code")
	}
	f.code = code
	return nil
}

func (f *fakeAPI) RemoveDiscount(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["remove"]++
	f.code = ""
	return nil
}

func newStore(t *testing.T) (*Store, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	return New(api, session.New(), zap.NewNop()), api
}

func TestFetchCart(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)
	assert.False(t, s.Synced())

	require.NoError(t, s.AddItem(ctx, "1", 1))
	before := s.Cart()

	api.failGet = errDown
	err := s.FetchCart(ctx)
	require.ErrorIs(t, err, errDown)
	assert.Equal(t, before, s.Cart(), "failed fetch keeps previous cart")

	api.failGet = nil
	require.NoError(t, s.FetchCart(ctx))
	assert.True(t, s.Synced())
}

func TestAddItemAdoptsResponse(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)

	require.NoError(t, s.AddItem(ctx, "1", 2))
	require.NoError(t, s.AddItem(ctx, "2", 1))

	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, api.snapshot().TotalItems, s.ItemCount())
	assert.Equal(t, 0, api.count("get"), "add must not refetch")
}

func TestAddItemFailureReconciles(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)

	err := s.AddItem(ctx, "missing", 1)
	require.Error(t, err)
	assert.Equal(t, 1, api.count("get"))
}

func TestQuantityBelowMin(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)

	for _, q := range []int{0, -1} {
		require.ErrorIs(t, s.AddItem(ctx, "1", q), ErrQuantityBelowMin)
		require.ErrorIs(t, s.UpdateItemQuantity(ctx, "1", q), ErrQuantityBelowMin)
	}
	assert.Zero(t, api.count("add"))
	assert.Zero(t, api.count("update"))
	assert.Zero(t, api.count("get"))
}

func TestUpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)
	require.NoError(t, s.AddItem(ctx, "1", 1))

	require.NoError(t, s.UpdateItemQuantity(ctx, "1", 4))
	item, ok := s.Cart().Item("1")
	require.True(t, ok)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 1, api.count("get"))

	api.failUpdate = errDown
	err := s.UpdateItemQuantity(ctx, "1", 5)
	require.ErrorIs(t, err, errDown)
	assert.Equal(t, 2, api.count("get"), "failed update still reconciles")
	item, _ = s.Cart().Item("1")
	assert.Equal(t, 4, item.Quantity)
}

func TestDiscountScenario(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)
	require.NoError(t, s.AddItem(ctx, "1", 2))

	require.NoError(t, s.ApplyDiscount(ctx, "SAVE10"))
	c := s.Cart()
	assert.Equal(t, "SAVE10", c.DiscountCode)
	assert.True(t, c.Total.LessThan(c.Subtotal))

	require.ErrorIs(t, s.ApplyDiscount(ctx, "OTHER"), ErrDiscountActive)
	assert.Equal(t, 1, api.count("apply"), "no request while a discount is active")

	require.NoError(t, s.RemoveDiscount(ctx))
	c = s.Cart()
	assert.False(t, c.HasDiscount())
	assert.True(t, c.Total.Equal(c.Subtotal))
}

func TestApplyDiscountRejected(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)
	require.NoError(t, s.AddItem(ctx, "1", 1))

	require.ErrorIs(t, s.ApplyDiscount(ctx, "  "), ErrEmptyCode)
	assert.Zero(t, api.count("apply"))

	err := s.ApplyDiscount(ctx, "BOGUS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid discount code")
	assert.Equal(t, 1, api.count("get"))
	assert.False(t, s.Cart().HasDiscount())
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)

	api.mu.Lock()
	api.order = []string{"2"}
	api.qty["2"] = 3
	api.mu.Unlock()

	require.NoError(t, s.Reconcile(ctx))
	assert.Equal(t, 3, s.ItemCount())
}

func TestCartSnapshotIsolated(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddItem(ctx, "1", 1))

	c := s.Cart()
	c.Items[0].Quantity = 99
	item, _ := s.Cart().Item("1")
	assert.Equal(t, 1, item.Quantity)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s, api := newStore(t)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_ = s.AddItem(ctx, "1", 1)
			_ = s.FetchCart(ctx)
		})
	}
	wg.Wait()

	require.NoError(t, s.FetchCart(ctx))
	assert.Equal(t, 20, s.ItemCount())
	assert.Equal(t, 20, api.count("add"))
}
