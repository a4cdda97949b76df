package product

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
}

// Initial returns the first letter of the product name, used as a
// placeholder where the catalog has no imagery.
func (p Product) Initial() string {
	for _, r := range p.Name {
		return string(r)
	}
	return "?"
}
