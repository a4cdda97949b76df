package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountCode is a single-use code minted by the server. The client only
// displays and submits codes; validity is decided remotely.
type DiscountCode struct {
	Code            string
	DiscountPercent decimal.Decimal
	GeneratedAt     time.Time
}
