package mockapi

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-storefront/internal/domain/admin"
	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/domain/product"
	"github.com/xenking/kart-storefront/internal/wire"
)

func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toWireProducts(in []product.Product) []wire.Product {
	out := make([]wire.Product, 0, len(in))
	for _, p := range in {
		out = append(out, wire.Product{
			ID:          wire.StringID(p.ID),
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       number(p.Price),
		})
	}
	return out
}

func toWireCart(userID string, c cart.Cart) wire.Cart {
	out := wire.Cart{
		UserID:         userID,
		Items:          make([]wire.CartItem, 0, len(c.Items)),
		Subtotal:       number(c.Subtotal),
		DiscountCode:   c.DiscountCode,
		DiscountAmount: number(c.DiscountAmount),
		Total:          number(c.Total),
		TotalItems:     c.TotalItems,
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, wire.CartItem{
			ProductID: wire.StringID(it.ProductID),
			Name:      it.Name,
			Price:     number(it.Price),
			Quantity:  it.Quantity,
			ItemTotal: number(it.LineTotal),
		})
	}
	return out
}

func toWireOrder(o order.Order) wire.Order {
	out := wire.Order{
		OrderID:               o.ID,
		OrderNumber:           o.Number,
		UserID:                o.UserID,
		Items:                 make([]wire.OrderItem, 0, len(o.Items)),
		Subtotal:              number(o.Subtotal),
		DiscountCode:          o.DiscountCode,
		DiscountAmount:        number(o.DiscountAmount),
		TotalAmount:           number(o.TotalAmount),
		ShippingAddress:       o.ShippingAddress,
		PaymentMethod:         string(o.PaymentMethod),
		Status:                o.Status,
		CreatedAt:             o.CreatedAt,
		DiscountCodeGenerated: o.GeneratedCode,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, wire.OrderItem{
			ProductID: wire.StringID(it.ProductID),
			Name:      it.Name,
			Price:     number(it.Price),
			Quantity:  it.Quantity,
		})
	}
	return out
}

func toWireOrders(in []order.Order) []wire.Order {
	out := make([]wire.Order, 0, len(in))
	for _, o := range in {
		out = append(out, toWireOrder(o))
	}
	return out
}

func toWireStats(s admin.Stats) wire.Stats {
	out := wire.Stats{
		TotalOrders:            s.TotalOrders,
		TotalItemsPurchased:    s.TotalItemsPurchased,
		TotalPurchaseAmount:    number(s.TotalPurchaseAmount),
		DiscountCodesGenerated: s.DiscountCodesGenerated,
		TotalDiscountAmount:    number(s.TotalDiscountAmount),
		NthOrderSetting:        s.NthOrderSetting,
		ActiveDiscountCodes:    make([]wire.DiscountCode, 0, len(s.ActiveDiscountCodes)),
	}
	for _, c := range s.ActiveDiscountCodes {
		out.ActiveDiscountCodes = append(out.ActiveDiscountCodes, wire.DiscountCode{
			Code:            c.Code,
			DiscountPercent: number(c.DiscountPercent),
			GeneratedAt:     c.GeneratedAt,
		})
	}
	return out
}
