package order

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the payment options offered at checkout.
type PaymentMethod string

const (
	// PaymentCreditCard is the default payment method.
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentMethods lists the supported methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentPayPal, PaymentBankTransfer}

// ErrUnknownPaymentMethod is returned by ParsePaymentMethod for values outside
// PaymentMethods.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ParsePaymentMethod validates s against the supported payment methods.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownPaymentMethod, "%q", s)
}

// Label returns a human-readable payment method name.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentPayPal:
		return "PayPal"
	case PaymentBankTransfer:
		return "Bank Transfer"
	default:
		return string(m)
	}
}

// Order is the immutable snapshot produced by a successful checkout.
type Order struct {
	ID              string
	Number          int
	UserID          string
	Items           []OrderItem
	Subtotal        decimal.Decimal
	DiscountCode    string
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	ShippingAddress string
	PaymentMethod   PaymentMethod
	Status          string
	CreatedAt       time.Time
	// GeneratedCode is the discount code earned by this order, if any.
	GeneratedCode string
}

// OrderItem represents a single line item in an order.
type OrderItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// ItemCount returns the total quantity across all line items.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
