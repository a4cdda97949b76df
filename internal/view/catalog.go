package view

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/domain/product"
)

// CatalogAPI lists purchasable products.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
}

// Catalog lists products and adds them to the cart.
type Catalog struct {
	api   CatalogAPI
	store CartStore
	lg    *zap.Logger

	mu       sync.RWMutex
	products []product.Product
	loaded   bool
}

// NewCatalog creates a Catalog.
func NewCatalog(api CatalogAPI, store CartStore, lg *zap.Logger) *Catalog {
	return &Catalog{api: api, store: store, lg: lg}
}

// Load fetches the product list. On failure the previous list is kept.
func (c *Catalog) Load(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.lg.Warn("Failed to load products", zap.Error(err))
		return errors.Wrap(err, "load products")
	}
	c.mu.Lock()
	c.products = products
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Loaded reports whether a product list has been fetched.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Products returns the loaded products.
func (c *Catalog) Products() []product.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

// Add puts one unit of productID into the cart.
func (c *Catalog) Add(ctx context.Context, productID string) error {
	return c.AddQuantity(ctx, productID, 1)
}

// AddQuantity puts quantity units of productID into the cart. Once the
// catalog is loaded, ids outside it are rejected without a request.
func (c *Catalog) AddQuantity(ctx context.Context, productID string, quantity int) error {
	if _, ok := c.product(productID); !ok && c.Loaded() {
		return errors.Wrapf(ErrUnknownProduct, "%q", productID)
	}
	return c.store.AddItem(ctx, productID, quantity)
}

func (c *Catalog) product(id string) (product.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.products, func(p product.Product) bool { return p.ID == id })
	if i < 0 {
		return product.Product{}, false
	}
	return c.products[i], true
}

// Render writes the product list.
func (c *Catalog) Render(w io.Writer) error {
	p := &printer{w: w}
	p.println("Products")
	products := c.Products()
	if len(products) == 0 {
		p.println("No products available")
		return p.err
	}

	tw := newTable(w)
	tp := &printer{w: tw}
	tp.printf("ID\tNAME\tCATEGORY\tPRICE\tDESCRIPTION\n")
	for _, pr := range products {
		tp.printf("%s\t[%s] %s\t%s\t%s\t%s\n", pr.ID, pr.Initial(), pr.Name, pr.Category, money(pr.Price), pr.Description)
	}
	if tp.err != nil {
		return tp.err
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return p.err
}
