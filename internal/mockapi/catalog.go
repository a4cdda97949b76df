package mockapi

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-storefront/internal/domain/product"
)

// Catalog is the seeded product list served by the stand-in.
func Catalog() []product.Product {
	return []product.Product{
		{ID: "1", Name: "Wireless Headphones", Category: "Electronics", Price: decimal.RequireFromString("99.99"),
			Description: "Over-ear headphones with active noise cancellation"},
		{ID: "2", Name: "Smart Watch", Category: "Electronics", Price: decimal.RequireFromString("199.99"),
			Description: "Fitness tracking, notifications and a two-day battery"},
		{ID: "3", Name: "Coffee Maker", Category: "Home", Price: decimal.RequireFromString("79.99"),
			Description: "Programmable 12-cup drip coffee maker"},
		{ID: "4", Name: "Running Shoes", Category: "Sports", Price: decimal.RequireFromString("129.99"),
			Description: "Lightweight trainers with responsive cushioning"},
		{ID: "5", Name: "Backpack", Category: "Accessories", Price: decimal.RequireFromString("49.99"),
			Description: "Water-resistant daypack with a padded laptop sleeve"},
		{ID: "6", Name: "Desk Lamp", Category: "Home", Price: decimal.RequireFromString("34.99"),
			Description: "LED lamp with adjustable color temperature"},
		{ID: "7", Name: "Yoga Mat", Category: "Sports", Price: decimal.RequireFromString("29.99"),
			Description: "Non-slip 6mm mat with carrying strap"},
		{ID: "8", Name: "Phone Case", Category: "Accessories", Price: decimal.RequireFromString("9.99"),
			Description: "Shock-absorbing case with raised edges"},
	}
}
