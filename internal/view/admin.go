package view

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/kart-storefront/internal/domain/admin"
	"github.com/xenking/kart-storefront/internal/domain/order"
)

// recentOrders is how many orders the dashboard table shows.
const recentOrders = 10

// Admin messages.
const (
	MsgInvalidNthOrder     = "Please enter a valid positive number"
	MsgGenerateFailed      = "Failed to generate discount code"
	MsgUpdateNthFailed     = "Failed to update nth order setting"
	msgDiscountGeneratedFm = "Discount code generated: %s"
)

// AdminAPI is the admin surface of the API.
type AdminAPI interface {
	AdminStats(ctx context.Context) (admin.Stats, error)
	AdminOrders(ctx context.Context) ([]order.Order, error)
	GenerateDiscount(ctx context.Context) (string, error)
	SetNthOrder(ctx context.Context, n int) (string, error)
}

// Admin is the store-wide dashboard.
type Admin struct {
	api AdminAPI
	lg  *zap.Logger

	mu     sync.RWMutex
	stats  *admin.Stats
	orders []order.Order
	loaded bool
}

// NewAdmin creates an Admin.
func NewAdmin(a AdminAPI, lg *zap.Logger) *Admin {
	return &Admin{api: a, lg: lg}
}

// Load fetches stats and orders concurrently. Each side that succeeds is
// adopted even if the other fails.
func (a *Admin) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		stats, err := a.api.AdminStats(ctx)
		if err != nil {
			return errors.Wrap(err, "load stats")
		}
		a.mu.Lock()
		a.stats = &stats
		a.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		orders, err := a.api.AdminOrders(ctx)
		if err != nil {
			return errors.Wrap(err, "load orders")
		}
		a.mu.Lock()
		a.orders = orders
		a.mu.Unlock()
		return nil
	})
	err := g.Wait()

	a.mu.Lock()
	a.loaded = true
	a.mu.Unlock()
	if err != nil {
		a.lg.Warn("Failed to load admin data", zap.Error(err))
	}
	return err
}

// Loaded reports whether Load has run.
func (a *Admin) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loaded
}

// Stats returns the loaded stats, if any.
func (a *Admin) Stats() (admin.Stats, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.stats == nil {
		return admin.Stats{}, false
	}
	return *a.stats, true
}

// NthOrder returns the displayed threshold, falling back to the default when
// stats are unavailable.
func (a *Admin) NthOrder() int {
	if s, ok := a.Stats(); ok && s.NthOrderSetting > 0 {
		return s.NthOrderSetting
	}
	return admin.DefaultNthOrder
}

// RecentOrders returns up to the last ten orders, newest first.
func (a *Admin) RecentOrders() []order.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()
	recent := slices.Clone(a.orders[max(0, len(a.orders)-recentOrders):])
	slices.Reverse(recent)
	return recent
}

// GenerateDiscount mints a code, refetches the dashboard and returns the
// message to show.
func (a *Admin) GenerateDiscount(ctx context.Context) (string, error) {
	code, err := a.api.GenerateDiscount(ctx)
	if err != nil {
		a.lg.Warn("Error generating discount code", zap.Error(err))
		return rejectionOr(err, MsgGenerateFailed), err
	}
	if err := a.Load(ctx); err != nil {
		a.lg.Debug("Dashboard reload after generate failed", zap.Error(err))
	}
	return fmt.Sprintf(msgDiscountGeneratedFm, code), nil
}

// SetNthOrder validates input as a positive integer, submits it, refetches
// the dashboard and returns the server's message.
func (a *Admin) SetNthOrder(ctx context.Context, input string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 {
		return MsgInvalidNthOrder, ErrInvalidNthOrder
	}
	msg, err := a.api.SetNthOrder(ctx, n)
	if err != nil {
		a.lg.Warn("Error updating nth order", zap.Int("n", n), zap.Error(err))
		return rejectionOr(err, MsgUpdateNthFailed), err
	}
	if err := a.Load(ctx); err != nil {
		a.lg.Debug("Dashboard reload after nth order update failed", zap.Error(err))
	}
	return msg, nil
}

// Render writes the stats, discount codes and recent orders.
func (a *Admin) Render(w io.Writer) error {
	p := &printer{w: w}
	p.println("Admin Dashboard")

	stats, ok := a.Stats()
	if ok {
		tw := newTable(w)
		tp := &printer{w: tw}
		tp.printf("Total Orders\t%d\n", stats.TotalOrders)
		tp.printf("Items Purchased\t%d\n", stats.TotalItemsPurchased)
		tp.printf("Total Revenue\t%s\n", money(stats.TotalPurchaseAmount))
		tp.printf("Total Discount\t%s\n", money(stats.TotalDiscountAmount))
		tp.printf("Discount Codes\t%d\n", stats.DiscountCodesGenerated)
		tp.printf("Nth Order Setting\tEvery %dth order\n", stats.NthOrderSetting)
		if tp.err != nil {
			return tp.err
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(stats.ActiveDiscountCodes) > 0 {
			p.println("Active Discount Codes:")
			for _, c := range stats.ActiveDiscountCodes {
				p.printf("  %s - %s%% off (generated %s)\n", c.Code, c.DiscountPercent.String(), date(c.GeneratedAt))
			}
		}
	} else {
		p.println("Stats unavailable")
	}
	p.printf("Currently, every %dth order receives a 10%% discount code\n", a.NthOrder())

	p.println("Recent Orders")
	recent := a.RecentOrders()
	if len(recent) == 0 {
		p.println("No orders yet")
		return p.err
	}
	if p.err != nil {
		return p.err
	}
	tw := newTable(w)
	tp := &printer{w: tw}
	tp.printf("ORDER #\tUSER ID\tITEMS\tTOTAL\tDISCOUNT\tDATE\n")
	for _, o := range recent {
		discount := o.DiscountCode
		if discount == "" {
			discount = "None"
		}
		tp.printf("#%d\t%s\t%d items\t%s\t%s\t%s\n",
			o.Number, shortID(o.UserID), o.ItemCount(), money(o.TotalAmount), discount, date(o.CreatedAt))
	}
	if tp.err != nil {
		return tp.err
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
