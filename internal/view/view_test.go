package view

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/domain/product"
	"github.com/xenking/kart-storefront/internal/mockapi"
	"github.com/xenking/kart-storefront/internal/session"
	"github.com/xenking/kart-storefront/internal/store"
)

var testProducts = []product.Product{
	{ID: "1", Name: "Phone Case", Category: "Accessories", Price: decimal.RequireFromString("9.99"), Description: "Shock-absorbing"},
	{ID: "2", Name: "Desk Lamp", Category: "Home", Price: decimal.RequireFromString("34.99")},
}

type testEnv struct {
	client *api.Client
	store  *countingStore
	state  *mockapi.State
	sess   session.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	state := mockapi.NewState(testProducts, []string{"SAVE10"}, nil)
	srv := httptest.NewServer(mockapi.NewServer(state).Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	sess := session.New()
	return &testEnv{
		client: client,
		store:  &countingStore{Store: store.New(client, sess, zap.NewNop())},
		state:  state,
		sess:   sess,
	}
}

// countingStore counts the mutations that reach the store.
type countingStore struct {
	*store.Store
	updates atomic.Int32
	applies atomic.Int32
}

func (s *countingStore) UpdateItemQuantity(ctx context.Context, productID string, quantity int) error {
	s.updates.Add(1)
	return s.Store.UpdateItemQuantity(ctx, productID, quantity)
}

func (s *countingStore) ApplyDiscount(ctx context.Context, code string) error {
	s.applies.Add(1)
	return s.Store.ApplyDiscount(ctx, code)
}

func render(t *testing.T, r interface{ Render(w io.Writer) error }) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	return buf.String()
}
