// Package store keeps the session's local copy of the cart in step with the
// server.
//
// Every mutation is sent to the API and followed by a reconciliation that
// replaces the local cart with an authoritative copy: the cart carried by the
// response when there is one, a fresh fetch otherwise. Reconciliation runs
// whether or not the mutation succeeded so a partially applied change on the
// server is never hidden from the user.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/session"
)

// Pre-request rejections. Nothing is sent to the server for these.
var (
	ErrQuantityBelowMin = errors.New("quantity must be at least 1")
	ErrDiscountActive   = errors.New("a discount is already applied")
	ErrEmptyCode        = errors.New("discount code is empty")
)

// CartAPI is the subset of the API client the store needs.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (cart.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (cart.Cart, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
	ApplyDiscount(ctx context.Context, userID, code string) error
	RemoveDiscount(ctx context.Context, userID string) error
}

// Store holds the cart for one session. It is safe for concurrent use; when
// responses race, the last one to arrive wins.
type Store struct {
	api     CartAPI
	session session.Session
	lg      *zap.Logger

	mu     sync.RWMutex
	cart   cart.Cart
	synced bool
}

// New creates a Store for sess. The cart starts empty until FetchCart or a
// mutation succeeds.
func New(api CartAPI, sess session.Session, lg *zap.Logger) *Store {
	return &Store{
		api:     api,
		session: sess,
		lg:      lg.With(zap.String("user_id", sess.ID)),
	}
}

// Session returns the session the store is bound to.
func (s *Store) Session() session.Session {
	return s.session
}

// Cart returns a snapshot of the local cart.
func (s *Store) Cart() cart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// ItemCount returns the server-reported number of items in the cart.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalItems
}

// Synced reports whether the cart has been loaded from the server at least
// once.
func (s *Store) Synced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// FetchCart replaces the local cart with the server's. On failure the
// previous cart is kept.
func (s *Store) FetchCart(ctx context.Context) error {
	c, err := s.api.GetCart(ctx, s.session.ID)
	if err != nil {
		s.lg.Warn("Failed to fetch cart", zap.Error(err))
		return errors.Wrap(err, "fetch cart")
	}
	s.adopt(c)
	return nil
}

// AddItem adds quantity units of productID and adopts the cart returned by
// the server.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrQuantityBelowMin
	}
	c, err := s.api.AddToCart(ctx, s.session.ID, productID, quantity)
	if err != nil {
		s.lg.Warn("Failed to add item", zap.String("product_id", productID), zap.Error(err))
	}
	return s.reconcile(ctx, "add item", &c, err)
}

// UpdateItemQuantity sets the quantity of productID, then refetches the cart.
func (s *Store) UpdateItemQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrQuantityBelowMin
	}
	err := s.api.UpdateItem(ctx, s.session.ID, productID, quantity)
	if err != nil {
		s.lg.Warn("Failed to update item",
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
	}
	return s.reconcile(ctx, "update item", nil, err)
}

// ApplyDiscount applies code to the cart, then refetches it. It is rejected
// locally while a discount is active or when code is blank.
func (s *Store) ApplyDiscount(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	if s.Cart().HasDiscount() {
		return ErrDiscountActive
	}
	err := s.api.ApplyDiscount(ctx, s.session.ID, code)
	if err != nil {
		s.lg.Warn("Failed to apply discount", zap.String("code", code), zap.Error(err))
	}
	return s.reconcile(ctx, "apply discount", nil, err)
}

// RemoveDiscount removes the active discount, then refetches the cart.
func (s *Store) RemoveDiscount(ctx context.Context) error {
	err := s.api.RemoveDiscount(ctx, s.session.ID)
	if err != nil {
		s.lg.Warn("Failed to remove discount", zap.Error(err))
	}
	return s.reconcile(ctx, "remove discount", nil, err)
}

// Reconcile refetches the cart after a mutation made outside the store, such
// as checkout.
func (s *Store) Reconcile(ctx context.Context) error {
	return s.reconcile(ctx, "reconcile", nil, nil)
}

// reconcile brings the local cart in line with the server after a mutation.
// A non-nil carried cart from a successful call is adopted directly; any other
// outcome triggers a fetch. The mutation error, if any, takes precedence over
// the fetch error.
func (s *Store) reconcile(ctx context.Context, op string, carried *cart.Cart, opErr error) error {
	if carried != nil && opErr == nil {
		s.adopt(*carried)
		return nil
	}
	fetchErr := s.FetchCart(ctx)
	if opErr != nil {
		return errors.Wrap(opErr, op)
	}
	return fetchErr
}

func (s *Store) adopt(c cart.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c.Clone()
	s.synced = true
}
