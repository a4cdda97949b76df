package admin

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-storefront/internal/domain/coupon"
)

// DefaultNthOrder is the threshold shown when the server has not reported one.
const DefaultNthOrder = 5

// Stats is the aggregate view served to the admin dashboard.
type Stats struct {
	TotalOrders            int
	TotalItemsPurchased    int
	TotalPurchaseAmount    decimal.Decimal
	DiscountCodesGenerated int
	TotalDiscountAmount    decimal.Decimal
	NthOrderSetting        int
	ActiveDiscountCodes    []coupon.DiscountCode
}
