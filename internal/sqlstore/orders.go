package sqlstore

import (
	"context"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/shop"
)

func (s *Store) CreateOrder(ctx context.Context, o *shop.Order) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO orders (id, client_id, date_ordered, status, total_price, date_received)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.ClientID, o.DateOrdered, string(o.Status), o.TotalPrice, o.DateReceived)
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*shop.Order, error) {
	var o shop.Order
	row := s.db.QueryRow(ctx,
		`SELECT id, client_id, date_ordered, status, total_price, date_received
		 FROM orders WHERE id = $1`, id)
	if err := row.Scan(&o.ID, &o.ClientID, &o.DateOrdered, &o.Status, &o.TotalPrice, &o.DateReceived); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

// UpdateOrder persists the order's own fields. The total is deliberately
// excluded: it only changes through SetOrderTotal during the save cascade.
func (s *Store) UpdateOrder(ctx context.Context, o *shop.Order) error {
	n, err := s.db.Exec(ctx,
		`UPDATE orders SET client_id = $1, date_ordered = $2, status = $3, date_received = $4
		 WHERE id = $5`,
		o.ClientID, o.DateOrdered, string(o.Status), o.DateReceived, o.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

func (s *Store) SetOrderTotal(ctx context.Context, id string, total decimal.Decimal) error {
	n, err := s.db.Exec(ctx, `UPDATE orders SET total_price = $1 WHERE id = $2`, total, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

func (s *Store) OrderItems(ctx context.Context, orderID string) ([]shop.OrderItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, order_id, product_id, quantity, added_to_cart_date, ordered
		 FROM order_items WHERE order_id = $1 ORDER BY added_to_cart_date`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []shop.OrderItem
	for rows.Next() {
		var it shop.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.AddedToCartDate, &it.Ordered); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) InsertOrderItem(ctx context.Context, item *shop.OrderItem) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO order_items (id, order_id, product_id, quantity, added_to_cart_date, ordered)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.AddedToCartDate, item.Ordered)
	return err
}

func (s *Store) GetOrderItem(ctx context.Context, id string) (*shop.OrderItem, error) {
	var it shop.OrderItem
	row := s.db.QueryRow(ctx,
		`SELECT id, order_id, product_id, quantity, added_to_cart_date, ordered
		 FROM order_items WHERE id = $1`, id)
	if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.AddedToCartDate, &it.Ordered); err != nil {
		return nil, mapErr(err)
	}
	return &it, nil
}

func (s *Store) SetOrderItemQuantity(ctx context.Context, id string, quantity int) error {
	n, err := s.db.Exec(ctx, `UPDATE order_items SET quantity = $1 WHERE id = $2`, quantity, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	n, err := s.db.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}

func (s *Store) OrderItemsTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(oi.quantity * p.price), 0)
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = $1`, orderID)
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Store) CreatePayment(ctx context.Context, p *shop.Payment) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO payments (id, order_id, payment_date, amount, payment_method)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.OrderID, p.PaymentDate, p.Amount, string(p.Method))
	return err
}

func (s *Store) GetPaymentByOrder(ctx context.Context, orderID string) (*shop.Payment, error) {
	var p shop.Payment
	row := s.db.QueryRow(ctx,
		`SELECT id, order_id, payment_date, amount, payment_method
		 FROM payments WHERE order_id = $1`, orderID)
	if err := row.Scan(&p.ID, &p.OrderID, &p.PaymentDate, &p.Amount, &p.Method); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) SetPaymentAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	n, err := s.db.Exec(ctx, `UPDATE payments SET amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return shop.ErrNotFound
	}
	return nil
}
