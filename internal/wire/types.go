// Package wire defines the JSON contract shared with the storefront API.
//
// Every response is an envelope of the form
//
//	{"success": true, "<payload>": ...}
//	{"success": false, "error": "human readable reason"}
//
// The payload types below mirror the remote field names exactly. Money is sent
// as JSON numbers and converted to decimals at the edge.
package wire

import "time"

// Product is a catalog entry.
type Product struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
}

// CartItem is a line in the cart payload.
type CartItem struct {
	ProductID ID      `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ItemTotal float64 `json:"itemTotal"`
}

// Cart is the cart payload.
type Cart struct {
	UserID         string     `json:"userId,omitempty"`
	Items          []CartItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	DiscountCode   string     `json:"discountCode,omitempty"`
	DiscountAmount float64    `json:"discountAmount"`
	Total          float64    `json:"total"`
	TotalItems     int        `json:"totalItems"`
}

// OrderItem is a line in an order payload.
type OrderItem struct {
	ProductID ID      `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the order payload returned by checkout and history endpoints.
type Order struct {
	OrderID               string      `json:"orderId"`
	OrderNumber           int         `json:"orderNumber"`
	UserID                string      `json:"userId"`
	Items                 []OrderItem `json:"items"`
	Subtotal              float64     `json:"subtotal"`
	DiscountCode          string      `json:"discountCode,omitempty"`
	DiscountAmount        float64     `json:"discountAmount"`
	TotalAmount           float64     `json:"totalAmount"`
	ShippingAddress       string      `json:"shippingAddress"`
	PaymentMethod         string      `json:"paymentMethod"`
	Status                string      `json:"status"`
	CreatedAt             time.Time   `json:"createdAt"`
	DiscountCodeGenerated string      `json:"discountCodeGenerated,omitempty"`
}

// DiscountCode is an entry of the admin active codes list.
type DiscountCode struct {
	Code            string    `json:"code"`
	DiscountPercent float64   `json:"discountPercent"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// Stats is the admin aggregate payload.
type Stats struct {
	TotalOrders            int            `json:"totalOrders"`
	TotalItemsPurchased    int            `json:"totalItemsPurchased"`
	TotalPurchaseAmount    float64        `json:"totalPurchaseAmount"`
	DiscountCodesGenerated int            `json:"discountCodesGenerated"`
	TotalDiscountAmount    float64        `json:"totalDiscountAmount"`
	NthOrderSetting        int            `json:"nthOrderSetting"`
	ActiveDiscountCodes    []DiscountCode `json:"activeDiscountCodes"`
}

// AddToCartReq is the body of POST /cart/add.
type AddToCartReq struct {
	UserID    string `json:"userId"`
	ProductID ID     `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemReq is the body of PUT /cart/{userId}/item.
type UpdateItemReq struct {
	ProductID ID  `json:"productId"`
	Quantity  int `json:"quantity"`
}

// ApplyDiscountReq is the body of POST /cart/{userId}/apply-discount.
type ApplyDiscountReq struct {
	Code string `json:"code"`
}

// CheckoutReq is the body of POST /checkout.
type CheckoutReq struct {
	UserID          string `json:"userId"`
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

// NthOrderReq is the body of PUT /admin/nth-order.
type NthOrderReq struct {
	N int `json:"n"`
}
