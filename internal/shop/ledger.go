package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderLedger owns order items and the stock adjustments they imply.
// A product's StockQuantity is decremented at reservation time, when an
// item is created or grows, and restored when it shrinks or is deleted.
// Every mutation runs as one transaction around the paired product and
// order-item writes: both persist or neither does.
type OrderLedger struct {
	store Store
	log   *zap.Logger
}

func NewOrderLedger(store Store, log *zap.Logger) *OrderLedger {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderLedger{store: store, log: log}
}

// OpenOrder creates a new processing order for a client with a zero total.
func (l *OrderLedger) OpenOrder(ctx context.Context, clientID string) (*Order, error) {
	if _, err := l.store.GetClient(ctx, clientID); err != nil {
		return nil, fmt.Errorf("load client %s: %w", clientID, err)
	}
	order := &Order{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		DateOrdered: time.Now().UTC(),
		Status:      OrderProcessing,
		TotalPrice:  decimal.Zero,
	}
	if err := l.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// CreateOrderItem reserves quantity units of a product for an order.
// Fails with *ValidationError when fewer units are on hand than requested,
// leaving stock untouched.
func (l *OrderLedger) CreateOrderItem(ctx context.Context, orderID, productID string, quantity int) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, validationf("quantity must be positive, got %d", quantity)
	}

	var item *OrderItem
	err := l.store.InTx(ctx, func(ctx context.Context) error {
		if _, err := l.store.GetOrder(ctx, orderID); err != nil {
			return fmt.Errorf("load order %s: %w", orderID, err)
		}
		p, err := l.store.GetProductForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("load product %s: %w", productID, err)
		}
		if p.StockQuantity < quantity {
			return validationf("insufficient stock for %q: %d on hand, %d requested", p.Name, p.StockQuantity, quantity)
		}
		newStock := p.StockQuantity - quantity
		if newStock < 0 {
			return validationf("stock for %q cannot go below zero", p.Name)
		}
		if err := l.store.SetProductStock(ctx, p.ID, newStock); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		item = &OrderItem{
			ID:              uuid.NewString(),
			OrderID:         orderID,
			ProductID:       productID,
			Quantity:        quantity,
			AddedToCartDate: time.Now().UTC(),
		}
		if err := l.store.InsertOrderItem(ctx, item); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("reserved stock",
		zap.String("order_id", orderID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity))
	return item, nil
}

// UpdateOrderItemQuantity changes an item's quantity and adjusts the
// product's stock by the difference: growing the item reduces stock
// further, shrinking it restores stock.
func (l *OrderLedger) UpdateOrderItemQuantity(ctx context.Context, itemID string, newQuantity int) (*OrderItem, error) {
	if newQuantity <= 0 {
		return nil, validationf("quantity must be positive, got %d", newQuantity)
	}

	var item *OrderItem
	err := l.store.InTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = l.store.GetOrderItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("load order item %s: %w", itemID, err)
		}
		p, err := l.store.GetProductForUpdate(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("load product %s: %w", item.ProductID, err)
		}
		diff := newQuantity - item.Quantity
		if p.StockQuantity < diff {
			return validationf("insufficient stock for %q: %d on hand, %d more requested", p.Name, p.StockQuantity, diff)
		}
		if err := l.store.SetProductStock(ctx, p.ID, p.StockQuantity-diff); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if err := l.store.SetOrderItemQuantity(ctx, item.ID, newQuantity); err != nil {
			return fmt.Errorf("update order item: %w", err)
		}
		item.Quantity = newQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteOrderItem removes an item and returns its full quantity to the
// product's on-hand stock.
func (l *OrderLedger) DeleteOrderItem(ctx context.Context, itemID string) error {
	return l.store.InTx(ctx, func(ctx context.Context) error {
		item, err := l.store.GetOrderItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("load order item %s: %w", itemID, err)
		}
		p, err := l.store.GetProductForUpdate(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("load product %s: %w", item.ProductID, err)
		}
		if err := l.store.SetProductStock(ctx, p.ID, p.StockQuantity+item.Quantity); err != nil {
			return fmt.Errorf("restock: %w", err)
		}
		if err := l.store.DeleteOrderItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete order item: %w", err)
		}
		return nil
	})
}

// RecalculateOrderTotal returns the sum of quantity times product price
// across the order's items. Pure read, zero for an empty order.
func (l *OrderLedger) RecalculateOrderTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	if _, err := l.store.GetOrder(ctx, orderID); err != nil {
		return decimal.Zero, fmt.Errorf("load order %s: %w", orderID, err)
	}
	total, err := l.store.OrderItemsTotal(ctx, orderID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum order items: %w", err)
	}
	return total, nil
}

// SaveOrder persists an order's own fields, recomputes its total from the
// current item set, and mirrors the total onto its payment, all in one
// transaction. The order's TotalPrice is never taken from the caller.
func (l *OrderLedger) SaveOrder(ctx context.Context, order *Order) error {
	if !order.Status.Valid() {
		return validationf("invalid order status %q", order.Status)
	}
	err := l.store.InTx(ctx, func(ctx context.Context) error {
		if err := l.store.UpdateOrder(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		total, err := l.store.OrderItemsTotal(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("sum order items: %w", err)
		}
		if err := l.store.SetOrderTotal(ctx, order.ID, total); err != nil {
			return fmt.Errorf("store total: %w", err)
		}
		order.TotalPrice = total
		return l.syncPayment(ctx, order.ID, total)
	})
	if err != nil {
		return err
	}
	l.log.Info("order saved",
		zap.String("order_id", order.ID),
		zap.String("total", order.TotalPrice.StringFixed(2)))
	return nil
}

// OrderView is an order together with its items and payment, as rendered
// by the order detail page.
type OrderView struct {
	Order   Order       `json:"order"`
	Items   []OrderItem `json:"items"`
	Payment *Payment    `json:"payment,omitempty"`
}

// GetOrderDetail loads an order with its item collection and, when it
// exists, its payment.
func (l *OrderLedger) GetOrderDetail(ctx context.Context, orderID string) (*OrderView, error) {
	order, err := l.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	items, err := l.store.OrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	payment, err := l.store.GetPaymentByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return &OrderView{Order: *order, Items: items, Payment: payment}, nil
}

// syncPayment sets the order's payment amount to total. An order that has
// not reached checkout has no payment row yet; that is not an error.
func (l *OrderLedger) syncPayment(ctx context.Context, orderID string, total decimal.Decimal) error {
	payment, err := l.store.GetPaymentByOrder(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if err := l.store.SetPaymentAmount(ctx, payment.ID, total); err != nil {
		return fmt.Errorf("sync payment amount: %w", err)
	}
	return nil
}
