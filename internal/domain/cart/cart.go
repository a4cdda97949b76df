// Package cart holds the client-side copy of a session's shopping cart.
//
// A Cart is always a snapshot of the server's state: the client never edits
// quantities or totals locally, it replaces the whole value after every call.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem is a single product entry in the cart.
type LineItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Cart is the server-owned cart for a session.
type Cart struct {
	Items          []LineItem
	Subtotal       decimal.Decimal
	DiscountCode   string
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	// TotalItems is the item count reported by the server.
	TotalItems int
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// HasDiscount reports whether a discount code is currently applied.
func (c Cart) HasDiscount() bool {
	return c.DiscountCode != ""
}

// Item returns the line item for productID.
func (c Cart) Item(productID string) (LineItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// Clone returns a copy that shares no memory with c.
func (c Cart) Clone() Cart {
	c.Items = slices.Clone(c.Items)
	return c
}
