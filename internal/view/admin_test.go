package view

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/domain/admin"
	"github.com/xenking/kart-storefront/internal/domain/order"
)

type fakeAdmin struct {
	stats     admin.Stats
	orders    []order.Order
	statsErr  error
	ordersErr error
	loads     atomic.Int32
	nthCalls  atomic.Int32
}

func (f *fakeAdmin) AdminStats(context.Context) (admin.Stats, error) {
	f.loads.Add(1)
	return f.stats, f.statsErr
}

func (f *fakeAdmin) AdminOrders(context.Context) ([]order.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeAdmin) GenerateDiscount(context.Context) (string, error) {
	return "SAVE10-ABCDEF12", nil
}

func (f *fakeAdmin) SetNthOrder(_ context.Context, n int) (string, error) {
	f.nthCalls.Add(1)
	f.stats.NthOrderSetting = n
	return "Nth order setting updated to " + strconv.Itoa(n), nil
}

func TestAdminAgainstMockAPI(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := NewAdmin(env.client, zap.NewNop())

	require.NoError(t, a.Load(ctx))
	assert.Equal(t, admin.DefaultNthOrder, a.NthOrder())
	assert.Contains(t, render(t, a), "No orders yet")

	msg, err := a.GenerateDiscount(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "Discount code generated: "), msg)
	code := strings.TrimPrefix(msg, "Discount code generated: ")

	msg, err = a.SetNthOrder(ctx, " 3 ")
	require.NoError(t, err)
	assert.Equal(t, "Nth order setting updated to 3", msg)
	assert.Equal(t, 3, a.NthOrder())

	require.NoError(t, env.store.AddItem(ctx, "1", 2))
	_, err = env.client.Checkout(ctx, api.CheckoutRequest{UserID: env.sess.ID, ShippingAddress: "a"})
	require.NoError(t, err)
	require.NoError(t, a.Load(ctx))

	stats, ok := a.Stats()
	require.True(t, ok)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 2, stats.TotalItemsPurchased)

	out := render(t, a)
	assert.Contains(t, out, "Every 3th order")
	assert.Contains(t, out, code)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, env.sess.Short())
	assert.Contains(t, out, "2 items")
}

func TestAdminSetNthOrderValidation(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAdmin{}
	a := NewAdmin(fake, zap.NewNop())

	for _, in := range []string{"", "0", "-2", "abc", "2.5", "3abc"} {
		msg, err := a.SetNthOrder(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidNthOrder, in)
		assert.Equal(t, MsgInvalidNthOrder, msg)
	}
	assert.Zero(t, fake.nthCalls.Load(), "invalid input sends nothing")
	assert.Zero(t, fake.loads.Load())

	_, err := a.SetNthOrder(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fake.nthCalls.Load())
	assert.Equal(t, int32(1), fake.loads.Load(), "refetched after update")
}

func TestAdminPartialLoad(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAdmin{
		statsErr: &api.NetworkError{Op: "AdminStats", Err: errors.New("refused")},
		orders:   []order.Order{{ID: "a", Number: 1, UserID: "user-123456789"}},
	}
	a := NewAdmin(fake, zap.NewNop())

	require.Error(t, a.Load(ctx))
	assert.True(t, a.Loaded())
	_, ok := a.Stats()
	assert.False(t, ok)
	assert.Equal(t, admin.DefaultNthOrder, a.NthOrder(), "threshold falls back to default")
	assert.Len(t, a.RecentOrders(), 1, "orders adopted although stats failed")

	out := render(t, a)
	assert.Contains(t, out, "Stats unavailable")
	assert.Contains(t, out, "every 5th order")

	fake.statsErr = nil
	fake.stats = admin.Stats{TotalOrders: 1, NthOrderSetting: 2}
	fake.ordersErr = errors.New("boom")
	require.Error(t, a.Load(ctx))
	assert.Equal(t, 2, a.NthOrder())
	assert.Len(t, a.RecentOrders(), 1, "previous orders kept")
}

func TestAdminRecentOrders(t *testing.T) {
	fake := &fakeAdmin{}
	for i := 1; i <= 12; i++ {
		fake.orders = append(fake.orders, order.Order{ID: strconv.Itoa(i), Number: i})
	}
	a := NewAdmin(fake, zap.NewNop())
	require.NoError(t, a.Load(context.Background()))

	recent := a.RecentOrders()
	require.Len(t, recent, 10)
	assert.Equal(t, 12, recent[0].Number)
	assert.Equal(t, 3, recent[9].Number)

	out := render(t, a)
	assert.NotRegexp(t, `(?m)^#2\s`, out)
	assert.NotRegexp(t, `(?m)^#1\s`, out)
	assert.Less(t, strings.Index(out, "#12"), strings.Index(out, "#11"))
}

func TestAdminGenerateDiscount(t *testing.T) {
	fake := &fakeAdmin{}
	a := NewAdmin(fake, zap.NewNop())
	msg, err := a.GenerateDiscount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Discount code generated: SAVE10-ABCDEF12", msg)
	assert.Equal(t, int32(1), fake.loads.Load())
}
