// Package memstore is an in-memory shop.Store used by unit tests and the
// back-office's local development mode. A single mutex stands in for the
// relational store's row locking: transactions serialize, and a snapshot
// taken at transaction start is restored on rollback.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/shop"
)

type Store struct {
	mu   sync.Mutex
	data *data
}

type data struct {
	categories map[string]shop.ProductCategory
	products   map[string]shop.Product
	clients    map[string]shop.Client
	employees  map[string]shop.Employee
	orders     map[string]shop.Order
	items      map[string]shop.OrderItem
	payments   map[string]shop.Payment
}

func New() *Store {
	return &Store{data: &data{
		categories: map[string]shop.ProductCategory{},
		products:   map[string]shop.Product{},
		clients:    map[string]shop.Client{},
		employees:  map[string]shop.Employee{},
		orders:     map[string]shop.Order{},
		items:      map[string]shop.OrderItem{},
		payments:   map[string]shop.Payment{},
	}}
}

func (d *data) clone() *data {
	c := &data{
		categories: make(map[string]shop.ProductCategory, len(d.categories)),
		products:   make(map[string]shop.Product, len(d.products)),
		clients:    make(map[string]shop.Client, len(d.clients)),
		employees:  make(map[string]shop.Employee, len(d.employees)),
		orders:     make(map[string]shop.Order, len(d.orders)),
		items:      make(map[string]shop.OrderItem, len(d.items)),
		payments:   make(map[string]shop.Payment, len(d.payments)),
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	for k, v := range d.employees {
		c.employees[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	return c
}

type txKey struct{}

// InTx serializes the unit of work under the store mutex and rolls the
// data back to the entry snapshot if fn fails. A nested call joins the
// ambient transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, txKey{})); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// enter takes the store mutex unless the context already holds it through
// an enclosing transaction.
func (s *Store) enter(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// --- products ---

func (s *Store) CreateProduct(ctx context.Context, p *shop.Product) error {
	defer s.enter(ctx)()
	s.data.products[p.ID] = *p
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*shop.Product, error) {
	defer s.enter(ctx)()
	p, ok := s.data.products[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetProductForUpdate(ctx context.Context, id string) (*shop.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *Store) UpdateProduct(ctx context.Context, p *shop.Product) error {
	defer s.enter(ctx)()
	if _, ok := s.data.products[p.ID]; !ok {
		return shop.ErrNotFound
	}
	s.data.products[p.ID] = *p
	return nil
}

func (s *Store) SetProductStock(ctx context.Context, id string, stock int) error {
	defer s.enter(ctx)()
	p, ok := s.data.products[id]
	if !ok {
		return shop.ErrNotFound
	}
	p.StockQuantity = stock
	s.data.products[id] = p
	return nil
}

// DeleteProduct mirrors the relational store's foreign-key behavior: a
// product with order items keeps its order history and cannot be removed.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	defer s.enter(ctx)()
	if _, ok := s.data.products[id]; !ok {
		return shop.ErrNotFound
	}
	for _, it := range s.data.items {
		if it.ProductID == id {
			return &shop.ValidationError{Msg: "product has order history"}
		}
	}
	delete(s.data.products, id)
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]shop.Product, error) {
	return s.SearchProducts(ctx, "", "")
}

func (s *Store) SearchProducts(ctx context.Context, query, categoryID string) ([]shop.Product, error) {
	defer s.enter(ctx)()
	q := strings.ToLower(query)
	var products []shop.Product
	for _, p := range s.data.products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *Store) SoldQuantity(ctx context.Context, productID string) (int, error) {
	defer s.enter(ctx)()
	sold := 0
	for _, it := range s.data.items {
		if it.ProductID == productID {
			sold += it.Quantity
		}
	}
	return sold, nil
}

// --- categories ---

func (s *Store) CreateCategory(ctx context.Context, c *shop.ProductCategory) error {
	defer s.enter(ctx)()
	s.data.categories[c.ID] = *c
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*shop.ProductCategory, error) {
	defer s.enter(ctx)()
	c, ok := s.data.categories[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]shop.ProductCategory, error) {
	defer s.enter(ctx)()
	var cats []shop.ProductCategory
	for _, c := range s.data.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

// --- clients and employees ---

func (s *Store) CreateClient(ctx context.Context, c *shop.Client) error {
	defer s.enter(ctx)()
	for _, existing := range s.data.clients {
		if existing.Email == c.Email {
			return shop.ErrDuplicateEmail
		}
	}
	s.data.clients[c.ID] = *c
	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*shop.Client, error) {
	defer s.enter(ctx)()
	c, ok := s.data.clients[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]shop.Client, error) {
	defer s.enter(ctx)()
	var clients []shop.Client
	for _, c := range s.data.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e *shop.Employee) error {
	defer s.enter(ctx)()
	s.data.employees[e.ID] = *e
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*shop.Employee, error) {
	defer s.enter(ctx)()
	e, ok := s.data.employees[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]shop.Employee, error) {
	defer s.enter(ctx)()
	var employees []shop.Employee
	for _, e := range s.data.employees {
		employees = append(employees, e)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

// --- orders ---

func (s *Store) CreateOrder(ctx context.Context, o *shop.Order) error {
	defer s.enter(ctx)()
	s.data.orders[o.ID] = *o
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*shop.Order, error) {
	defer s.enter(ctx)()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return &o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *shop.Order) error {
	defer s.enter(ctx)()
	existing, ok := s.data.orders[o.ID]
	if !ok {
		return shop.ErrNotFound
	}
	updated := *o
	updated.TotalPrice = existing.TotalPrice // only SetOrderTotal touches the total
	s.data.orders[o.ID] = updated
	return nil
}

func (s *Store) SetOrderTotal(ctx context.Context, id string, total decimal.Decimal) error {
	defer s.enter(ctx)()
	o, ok := s.data.orders[id]
	if !ok {
		return shop.ErrNotFound
	}
	o.TotalPrice = total
	s.data.orders[id] = o
	return nil
}

func (s *Store) OrderItems(ctx context.Context, orderID string) ([]shop.OrderItem, error) {
	defer s.enter(ctx)()
	var items []shop.OrderItem
	for _, it := range s.data.items {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedToCartDate.Before(items[j].AddedToCartDate)
	})
	return items, nil
}

func (s *Store) InsertOrderItem(ctx context.Context, item *shop.OrderItem) error {
	defer s.enter(ctx)()
	s.data.items[item.ID] = *item
	return nil
}

func (s *Store) GetOrderItem(ctx context.Context, id string) (*shop.OrderItem, error) {
	defer s.enter(ctx)()
	it, ok := s.data.items[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return &it, nil
}

func (s *Store) SetOrderItemQuantity(ctx context.Context, id string, quantity int) error {
	defer s.enter(ctx)()
	it, ok := s.data.items[id]
	if !ok {
		return shop.ErrNotFound
	}
	it.Quantity = quantity
	s.data.items[id] = it
	return nil
}

func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	defer s.enter(ctx)()
	if _, ok := s.data.items[id]; !ok {
		return shop.ErrNotFound
	}
	delete(s.data.items, id)
	return nil
}

func (s *Store) OrderItemsTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	defer s.enter(ctx)()
	total := decimal.Zero
	for _, it := range s.data.items {
		if it.OrderID != orderID {
			continue
		}
		p, ok := s.data.products[it.ProductID]
		if !ok {
			return decimal.Zero, shop.ErrNotFound
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

// --- payments ---

func (s *Store) CreatePayment(ctx context.Context, p *shop.Payment) error {
	defer s.enter(ctx)()
	s.data.payments[p.ID] = *p
	return nil
}

func (s *Store) GetPaymentByOrder(ctx context.Context, orderID string) (*shop.Payment, error) {
	defer s.enter(ctx)()
	for _, p := range s.data.payments {
		if p.OrderID == orderID {
			return &p, nil
		}
	}
	return nil, shop.ErrNotFound
}

func (s *Store) SetPaymentAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	defer s.enter(ctx)()
	p, ok := s.data.payments[id]
	if !ok {
		return shop.ErrNotFound
	}
	p.Amount = amount
	s.data.payments[id] = p
	return nil
}
