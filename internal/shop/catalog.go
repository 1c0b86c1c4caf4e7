package shop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog validates and serves products and categories. Its derived
// figures (sold quantity, remaining stock) are recomputed from the order
// ledger's data on every read so they always reflect the latest committed
// items.
type Catalog struct {
	store Store
	log   *zap.Logger
}

func NewCatalog(store Store, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{store: store, log: log}
}

func (c *Catalog) CreateCategory(ctx context.Context, name, description string) (*ProductCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationf("category name is required")
	}
	cat := &ProductCategory{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.store.CreateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (c *Catalog) GetCategory(ctx context.Context, id string) (*ProductCategory, error) {
	return c.store.GetCategory(ctx, id)
}

func (c *Catalog) ListCategories(ctx context.Context) ([]ProductCategory, error) {
	return c.store.ListCategories(ctx)
}

// CreateProduct validates the product at the boundary and persists it.
// An empty gender defaults to unisex.
func (c *Catalog) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := c.validate(ctx, p); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	if err := c.store.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	c.log.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		return validationf("product id is required")
	}
	if err := c.validate(ctx, p); err != nil {
		return err
	}
	if err := c.store.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (c *Catalog) validate(ctx context.Context, p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationf("product name is required")
	}
	if p.Price.IsNegative() {
		return validationf("price cannot be negative")
	}
	if p.StockQuantity < 0 {
		return validationf("stock quantity cannot be negative")
	}
	if p.Gender == "" {
		p.Gender = GenderUnisex
	}
	if !p.Gender.Valid() {
		return validationf("invalid gender %q", p.Gender)
	}
	if _, err := c.store.GetCategory(ctx, p.CategoryID); err != nil {
		return fmt.Errorf("load category %s: %w", p.CategoryID, err)
	}
	return nil
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*Product, error) {
	return c.store.GetProduct(ctx, id)
}

func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	return c.store.DeleteProduct(ctx, id)
}

func (c *Catalog) ListProducts(ctx context.Context) ([]Product, error) {
	return c.store.ListProducts(ctx)
}

func (c *Catalog) SearchProducts(ctx context.Context, query, categoryID string) ([]Product, error) {
	return c.store.SearchProducts(ctx, query, categoryID)
}

// SoldQuantity is the lifetime sold figure: the sum of quantities across
// all order items ever created for the product.
func (c *Catalog) SoldQuantity(ctx context.Context, productID string) (int, error) {
	if _, err := c.store.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return c.store.SoldQuantity(ctx, productID)
}

// RemainingStock is stock quantity minus lifetime sold. Display-only:
// the on-hand counter already reflects reservations, so availability
// decisions read StockQuantity, never this figure.
func (c *Catalog) RemainingStock(ctx context.Context, productID string) (int, error) {
	p, err := c.store.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	sold, err := c.store.SoldQuantity(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.StockQuantity - sold, nil
}
