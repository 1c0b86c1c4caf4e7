package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"shop-backoffice/internal/database"
	"shop-backoffice/internal/shop"
)

const productColumns = `id, name, COALESCE(description, ''), price, category_id,
	stock_quantity, gender, brand, size, COALESCE(created_by, '')`

func scanProduct(row database.Row, p *shop.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&p.StockQuantity, &p.Gender, &p.Brand, &p.Size, &p.CreatedBy)
}

func (s *Store) CreateProduct(ctx context.Context, p *shop.Product) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO products (id, name, description, price, category_id, stock_quantity, gender, brand, size, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Description, p.Price, p.CategoryID,
		p.StockQuantity, string(p.Gender), p.Brand, p.Size, nullable(p.CreatedBy))
	return err
}

func (s *Store) GetProduct(ctx context.Context, id string) (*shop.Product, error) {
	var p shop.Product
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err := scanProduct(row, &p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) GetProductForUpdate(ctx context.Context, id string) (*shop.Product, error) {
	var p shop.Product
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	if err := scanProduct(row, &p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *shop.Product) error {
	n, err := s.db.Exec(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, category_id = $4,
		 stock_quantity = $5, gender = $6, brand = $7, size = $8, created_by = $9
		 WHERE id = $10`,
		p.Name, p.Description, p.Price, p.CategoryID,
		p.StockQuantity, string(p.Gender), p.Brand, p.Size, nullable(p.CreatedBy), p.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

func (s *Store) SetProductStock(ctx context.Context, id string, stock int) error {
	n, err := s.db.Exec(ctx, `UPDATE products SET stock_quantity = $1 WHERE id = $2`, stock, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

// DeleteProduct refuses to remove a product that order items still
// reference; the order history stays intact.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	n, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKey(err) {
			return &shop.ValidationError{Msg: "product has order history"}
		}
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]shop.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (s *Store) SearchProducts(ctx context.Context, query, categoryID string) ([]shop.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	var clauses []string
	var args []any
	if query != "" {
		args = append(args, "%"+strings.ToLower(query)+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if categoryID != "" {
		args = append(args, categoryID)
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY name"
	return s.queryProducts(ctx, q, args...)
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]shop.Product, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []shop.Product
	for rows.Next() {
		var p shop.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) SoldQuantity(ctx context.Context, productID string) (int, error) {
	var sold int64
	row := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE product_id = $1`, productID)
	if err := row.Scan(&sold); err != nil {
		return 0, err
	}
	return int(sold), nil
}

func (s *Store) CreateCategory(ctx context.Context, c *shop.ProductCategory) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO product_categories (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt)
	return err
}

func (s *Store) GetCategory(ctx context.Context, id string) (*shop.ProductCategory, error) {
	var c shop.ProductCategory
	row := s.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM product_categories WHERE id = $1`, id)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]shop.ProductCategory, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM product_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []shop.ProductCategory
	for rows.Next() {
		var c shop.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
