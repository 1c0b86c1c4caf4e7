package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender classifies a product line.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderKids   Gender = "kids"
	GenderUnisex Gender = "unisex"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderKids, GenderUnisex:
		return true
	}
	return false
}

// OrderStatus tracks an order through fulfillment.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
)

func (s OrderStatus) Valid() bool {
	return s == OrderProcessing || s == OrderShipped
}

// PaymentMethod identifies how an order was paid.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentOnline     PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCreditCard || m == PaymentOnline
}

type ProductCategory struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Product is a sellable catalog entry. StockQuantity is the authoritative
// on-hand counter: it is decremented when an order item reserves units and
// restored when the item shrinks or is deleted. It must never go negative.
type Product struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	CategoryID    string          `db:"category_id" json:"category_id"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	Gender        Gender          `db:"gender" json:"gender"`
	Brand         string          `db:"brand" json:"brand"`
	Size          string          `db:"size" json:"size"`
	CreatedBy     string          `db:"created_by" json:"created_by,omitempty"`
}

type Client struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
}

type Order struct {
	ID           string          `db:"id" json:"id"`
	ClientID     string          `db:"client_id" json:"client_id"`
	DateOrdered  time.Time       `db:"date_ordered" json:"date_ordered"`
	Status       OrderStatus     `db:"status" json:"status"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"total_price"`
	DateReceived *time.Time      `db:"date_received" json:"date_received,omitempty"`
}

type OrderItem struct {
	ID              string    `db:"id" json:"id"`
	OrderID         string    `db:"order_id" json:"order_id"`
	ProductID       string    `db:"product_id" json:"product_id"`
	Quantity        int       `db:"quantity" json:"quantity"`
	AddedToCartDate time.Time `db:"added_to_cart_date" json:"added_to_cart_date"`
	Ordered         bool      `db:"ordered" json:"ordered"`
}

// Payment is the single payment record owned by an order. Amount mirrors
// the order's total price after every order-mutating transaction.
type Payment struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	PaymentDate time.Time       `db:"payment_date" json:"payment_date"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Method      PaymentMethod   `db:"payment_method" json:"payment_method"`
}

type Employee struct {
	ID       string    `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Position string    `db:"position" json:"position"`
	HireDate time.Time `db:"hire_date" json:"hire_date"`
}

// ProductSales pairs a product with its lifetime sold quantity for reporting.
type ProductSales struct {
	Product   Product `json:"product"`
	TotalSold int     `json:"total_sold"`
}

// CategorySummary carries the aggregate figures shown on the category listing.
type CategorySummary struct {
	Category             ProductCategory `json:"category"`
	ProductCount         int             `json:"product_count"`
	OrderedItemCount     int             `json:"ordered_item_count"`
	TotalQuantityOrdered int             `json:"total_quantity_ordered"`
}
