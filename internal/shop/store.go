package shop

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the persistence contract the back-office runs against. The SQL
// implementation lives in internal/sqlstore; internal/memstore provides an
// in-memory implementation for tests and local development.
//
// InTx runs fn inside one all-or-nothing unit of work. The context passed to
// fn is transaction-scoped: store methods called with it see uncommitted
// writes and their effects are discarded if fn returns an error.
type Store interface {
	ProductStore
	CategoryStore
	ClientStore
	EmployeeStore
	OrderStore
	PaymentStore
	ReportStore

	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	// GetProductForUpdate reads a product with its row locked for the
	// duration of the enclosing transaction, serializing concurrent
	// stock adjustments against the same product.
	GetProductForUpdate(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	SetProductStock(ctx context.Context, id string, stock int) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]Product, error)
	// SearchProducts filters by case-insensitive name substring; an empty
	// query matches everything, an empty categoryID disables the filter.
	SearchProducts(ctx context.Context, query, categoryID string) ([]Product, error)
	// SoldQuantity sums the quantities of all order items ever created for
	// the product. Recomputed on every call, never cached.
	SoldQuantity(ctx context.Context, productID string) (int, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *ProductCategory) error
	GetCategory(ctx context.Context, id string) (*ProductCategory, error)
	ListCategories(ctx context.Context) ([]ProductCategory, error)
}

type ClientStore interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
}

type EmployeeStore interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	SetOrderTotal(ctx context.Context, id string, total decimal.Decimal) error
	OrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	InsertOrderItem(ctx context.Context, item *OrderItem) error
	GetOrderItem(ctx context.Context, id string) (*OrderItem, error)
	SetOrderItemQuantity(ctx context.Context, id string, quantity int) error
	DeleteOrderItem(ctx context.Context, id string) error
	// OrderItemsTotal computes SUM(quantity * product price) over the
	// order's items in a single pass, zero when the order is empty.
	OrderItemsTotal(ctx context.Context, orderID string) (decimal.Decimal, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPaymentByOrder(ctx context.Context, orderID string) (*Payment, error)
	SetPaymentAmount(ctx context.Context, id string, amount decimal.Decimal) error
}

// ReportStore serves the read-only aggregates behind the landing and
// category pages. None of these carry invariants.
type ReportStore interface {
	TopProductsBySold(ctx context.Context, n int) ([]ProductSales, error)
	NewestCategories(ctx context.Context, n int) ([]ProductCategory, error)
	RecentOrders(ctx context.Context, n int) ([]Order, error)
	CategorySummaries(ctx context.Context) ([]CategorySummary, error)
}
