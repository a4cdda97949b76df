package api

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-storefront/internal/domain/admin"
	"github.com/xenking/kart-storefront/internal/domain/cart"
	"github.com/xenking/kart-storefront/internal/domain/coupon"
	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/domain/product"
	"github.com/xenking/kart-storefront/internal/wire"
)

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func convertProduct(ids *idForms, p wire.Product) product.Product {
	return product.Product{
		ID:          ids.seen(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       money(p.Price),
	}
}

func convertCart(ids *idForms, c wire.Cart) cart.Cart {
	out := cart.Cart{
		Subtotal:       money(c.Subtotal),
		DiscountCode:   c.DiscountCode,
		DiscountAmount: money(c.DiscountAmount),
		Total:          money(c.Total),
		TotalItems:     c.TotalItems,
	}
	if len(c.Items) > 0 {
		out.Items = make([]cart.LineItem, 0, len(c.Items))
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, cart.LineItem{
			ProductID: ids.seen(it.ProductID),
			Name:      it.Name,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
			LineTotal: money(it.ItemTotal),
		})
	}
	return out
}

func convertOrder(ids *idForms, o wire.Order) order.Order {
	out := order.Order{
		ID:              o.OrderID,
		Number:          o.OrderNumber,
		UserID:          o.UserID,
		Subtotal:        money(o.Subtotal),
		DiscountCode:    o.DiscountCode,
		DiscountAmount:  money(o.DiscountAmount),
		TotalAmount:     money(o.TotalAmount),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   order.PaymentMethod(o.PaymentMethod),
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		GeneratedCode:   o.DiscountCodeGenerated,
	}
	if len(o.Items) > 0 {
		out.Items = make([]order.OrderItem, 0, len(o.Items))
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, order.OrderItem{
			ProductID: ids.seen(it.ProductID),
			Name:      it.Name,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
		})
	}
	return out
}

func convertOrders(ids *idForms, in []wire.Order) []order.Order {
	out := make([]order.Order, 0, len(in))
	for _, o := range in {
		out = append(out, convertOrder(ids, o))
	}
	return out
}

func convertStats(s wire.Stats) admin.Stats {
	out := admin.Stats{
		TotalOrders:            s.TotalOrders,
		TotalItemsPurchased:    s.TotalItemsPurchased,
		TotalPurchaseAmount:    money(s.TotalPurchaseAmount),
		DiscountCodesGenerated: s.DiscountCodesGenerated,
		TotalDiscountAmount:    money(s.TotalDiscountAmount),
		NthOrderSetting:        s.NthOrderSetting,
	}
	for _, c := range s.ActiveDiscountCodes {
		out.ActiveDiscountCodes = append(out.ActiveDiscountCodes, coupon.DiscountCode{
			Code:            c.Code,
			DiscountPercent: money(c.DiscountPercent),
			GeneratedAt:     c.GeneratedAt,
		})
	}
	return out
}
