package mockapi

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-storefront/internal/domain/admin"
	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/domain/coupon"
	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/domain/product"
)

// DiscountPercent is the value of every code the stand-in issues.
var DiscountPercent = decimal.NewFromInt(10)

// Rejection is a client error reported as success:false with Reason as the
// envelope error.
type Rejection struct {
	Status int
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Rejections returned by State.
var (
	ErrProductNotFound = &Rejection{http.StatusNotFound, "Product not found"}
	ErrItemNotInCart   = &Rejection{http.StatusNotFound, "Item not found in cart"}
	ErrInvalidQuantity = &Rejection{http.StatusBadRequest, "Quantity must be at least 1"}
	ErrInvalidCode     = &Rejection{http.StatusBadRequest, "Invalid or already used discount code"}
	ErrDiscountApplied = &Rejection{http.StatusConflict, "A discount code is already applied to this cart"}
	ErrCartEmpty       = &Rejection{http.StatusBadRequest, "Cart is empty"}
	ErrAddressRequired = &Rejection{http.StatusBadRequest, "Shipping address is required"}
	ErrInvalidPayment  = &Rejection{http.StatusBadRequest, "Invalid payment method"}
	ErrInvalidNthOrder = &Rejection{http.StatusBadRequest, "n must be a positive integer"}
	ErrUserRequired    = &Rejection{http.StatusBadRequest, "userId is required"}
	ErrBadRequest      = &Rejection{http.StatusBadRequest, "Invalid request body"}
)

type line struct {
	product  product.Product
	quantity int
}

type cartState struct {
	lines []line
	code  string
}

type codeState struct {
	code coupon.DiscountCode
	used bool
}

// State is the stand-in's in-memory store. It is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	now      func() time.Time
	products []product.Product
	carts    map[string]*cartState
	orders   []order.Order
	codes    map[string]*codeState
	minted   int
	nthOrder int
}

// NewState creates a State with the given catalog and pre-issued codes.
func NewState(products []product.Product, codes []string, now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	s := &State{
		now:      now,
		products: slices.Clone(products),
		carts:    make(map[string]*cartState),
		codes:    make(map[string]*codeState),
		nthOrder: admin.DefaultNthOrder,
	}
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			s.codes[c] = &codeState{code: coupon.DiscountCode{Code: c, DiscountPercent: DiscountPercent, GeneratedAt: now()}}
		}
	}
	return s
}

// Products returns the catalog.
func (s *State) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Cart returns the cart of userID. Unknown users have an empty cart.
func (s *State) Cart(userID string) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(userID)
}

// AddItem adds quantity units of productID to the cart of userID.
func (s *State) AddItem(userID, productID string, quantity int) (cart.Cart, error) {
	if userID == "" {
		return cart.Cart{}, ErrUserRequired
	}
	if quantity < 1 {
		return cart.Cart{}, ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.products, func(p product.Product) bool { return p.ID == productID })
	if idx < 0 {
		return cart.Cart{}, ErrProductNotFound
	}
	cs := s.cartFor(userID)
	if i := cs.find(productID); i >= 0 {
		cs.lines[i].quantity += quantity
	} else {
		cs.lines = append(cs.lines, line{product: s.products[idx], quantity: quantity})
	}
	return s.cartLocked(userID), nil
}

// UpdateItem sets the quantity of productID in the cart of userID.
func (s *State) UpdateItem(userID, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.carts[userID]
	if cs == nil {
		return ErrItemNotInCart
	}
	i := cs.find(productID)
	if i < 0 {
		return ErrItemNotInCart
	}
	cs.lines[i].quantity = quantity
	return nil
}

// ApplyDiscount attaches code to the cart of userID. The code is consumed
// only at checkout.
func (s *State) ApplyDiscount(userID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.cartFor(userID)
	if cs.code != "" {
		return ErrDiscountApplied
	}
	c, ok := s.codes[code]
	if !ok || c.used {
		return ErrInvalidCode
	}
	cs.code = code
	return nil
}

// RemoveDiscount detaches any code from the cart of userID.
func (s *State) RemoveDiscount(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs := s.carts[userID]; cs != nil {
		cs.code = ""
	}
}

// Checkout turns the cart of userID into an order and empties the cart.
// Every nth order earns a fresh discount code.
func (s *State) Checkout(userID, address, payment string) (order.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return order.Order{}, ErrAddressRequired
	}
	method := order.PaymentCreditCard
	if payment != "" {
		m, err := order.ParsePaymentMethod(payment)
		if err != nil {
			return order.Order{}, ErrInvalidPayment
		}
		method = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.carts[userID]
	if cs == nil || len(cs.lines) == 0 {
		return order.Order{}, ErrCartEmpty
	}
	if cs.code != "" && s.codes[cs.code].used {
		cs.code = ""
		return order.Order{}, ErrInvalidCode
	}
	c := s.cartLocked(userID)
	if c.DiscountCode != "" {
		s.codes[c.DiscountCode].used = true
	}

	o := order.Order{
		ID:              uuid.NewString(),
		Number:          len(s.orders) + 1,
		UserID:          userID,
		Subtotal:        c.Subtotal,
		DiscountCode:    c.DiscountCode,
		DiscountAmount:  c.DiscountAmount,
		TotalAmount:     c.Total,
		ShippingAddress: address,
		PaymentMethod:   method,
		Status:          "confirmed",
		CreatedAt:       s.now(),
	}
	for _, it := range c.Items {
		o.Items = append(o.Items, order.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	if o.Number%s.nthOrder == 0 {
		o.GeneratedCode = s.mintLocked()
	}

	s.orders = append(s.orders, o)
	delete(s.carts, userID)
	return o, nil
}

// Orders returns the orders of userID, oldest first.
func (s *State) Orders(userID string) []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// AllOrders returns every order, oldest first.
func (s *State) AllOrders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// Stats aggregates all orders and codes.
func (s *State) Stats() admin.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := admin.Stats{
		TotalOrders:            len(s.orders),
		DiscountCodesGenerated: s.minted,
		NthOrderSetting:        s.nthOrder,
	}
	for _, o := range s.orders {
		st.TotalItemsPurchased += o.ItemCount()
		st.TotalPurchaseAmount = st.TotalPurchaseAmount.Add(o.TotalAmount)
		st.TotalDiscountAmount = st.TotalDiscountAmount.Add(o.DiscountAmount)
	}
	for _, c := range s.codes {
		if !c.used {
			st.ActiveDiscountCodes = append(st.ActiveDiscountCodes, c.code)
		}
	}
	slices.SortFunc(st.ActiveDiscountCodes, func(a, b coupon.DiscountCode) int {
		if c := a.GeneratedAt.Compare(b.GeneratedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return st
}

// GenerateDiscount mints a new single-use code.
func (s *State) GenerateDiscount() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked()
}

// SetNthOrder changes how often an order earns a code.
func (s *State) SetNthOrder(n int) error {
	if n < 1 {
		return ErrInvalidNthOrder
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nthOrder = n
	return nil
}

func (s *State) mintLocked() string {
	code := "SAVE10-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	s.codes[code] = &codeState{code: coupon.DiscountCode{Code: code, DiscountPercent: DiscountPercent, GeneratedAt: s.now()}}
	s.minted++
	return code
}

func (s *State) cartFor(userID string) *cartState {
	cs := s.carts[userID]
	if cs == nil {
		cs = &cartState{}
		s.carts[userID] = cs
	}
	return cs
}

var hundred = decimal.NewFromInt(100)

func (s *State) cartLocked(userID string) cart.Cart {
	var c cart.Cart
	cs := s.carts[userID]
	if cs == nil {
		return c
	}
	for _, l := range cs.lines {
		total := l.product.Price.Mul(decimal.NewFromInt(int64(l.quantity)))
		c.Items = append(c.Items, cart.LineItem{
			ProductID: l.product.ID,
			Name:      l.product.Name,
			Price:     l.product.Price,
			Quantity:  l.quantity,
			LineTotal: total,
		})
		c.Subtotal = c.Subtotal.Add(total)
		c.TotalItems += l.quantity
	}
	c.Total = c.Subtotal
	if cs.code != "" {
		pct := s.codes[cs.code].code.DiscountPercent
		c.DiscountCode = cs.code
		c.DiscountAmount = c.Subtotal.Mul(pct).Div(hundred).Round(2)
		c.Total = c.Subtotal.Sub(c.DiscountAmount)
	}
	return c
}

func (cs *cartState) find(productID string) int {
	return slices.IndexFunc(cs.lines, func(l line) bool { return l.product.ID == productID })
}
