package sqlstore

import (
	"context"

	"shop-backoffice/internal/shop"
)

func (s *Store) TopProductsBySold(ctx context.Context, n int) ([]shop.ProductSales, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.name, COALESCE(p.description, ''), p.price, p.category_id,
		        p.stock_quantity, p.gender, p.brand, p.size, COALESCE(p.created_by, ''),
		        COALESCE(SUM(oi.quantity), 0) AS total_sold
		 FROM products p
		 LEFT JOIN order_items oi ON oi.product_id = p.id
		 GROUP BY p.id, p.name, p.description, p.price, p.category_id,
		          p.stock_quantity, p.gender, p.brand, p.size, p.created_by
		 ORDER BY total_sold DESC, p.name
		 LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []shop.ProductSales
	for rows.Next() {
		var ps shop.ProductSales
		var sold int64
		p := &ps.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
			&p.StockQuantity, &p.Gender, &p.Brand, &p.Size, &p.CreatedBy, &sold); err != nil {
			return nil, err
		}
		ps.TotalSold = int(sold)
		sales = append(sales, ps)
	}
	return sales, rows.Err()
}

func (s *Store) NewestCategories(ctx context.Context, n int) ([]shop.ProductCategory, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at
		 FROM product_categories ORDER BY created_at DESC LIMIT $1`, n)
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

func (s *Store) RecentOrders(ctx context.Context, n int) ([]shop.Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, client_id, date_ordered, status, total_price, date_received
		 FROM orders ORDER BY date_ordered DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []shop.Order
	for rows.Next() {
		var o shop.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.DateOrdered, &o.Status, &o.TotalPrice, &o.DateReceived); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) CategorySummaries(ctx context.Context) ([]shop.CategorySummary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at,
		        COUNT(DISTINCT p.id), COUNT(DISTINCT oi.id), COALESCE(SUM(oi.quantity), 0)
		 FROM product_categories c
		 LEFT JOIN products p ON p.category_id = c.id
		 LEFT JOIN order_items oi ON oi.product_id = p.id
		 GROUP BY c.id, c.name, c.description, c.created_at
		 ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []shop.CategorySummary
	for rows.Next() {
		var cs shop.CategorySummary
		var productCount, itemCount, totalQty int64
		c := &cs.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt,
			&productCount, &itemCount, &totalQty); err != nil {
			return nil, err
		}
		cs.ProductCount = int(productCount)
		cs.OrderedItemCount = int(itemCount)
		cs.TotalQuantityOrdered = int(totalQty)
		summaries = append(summaries, cs)
	}
	return summaries, rows.Err()
}
