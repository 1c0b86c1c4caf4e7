package shop_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-backoffice/internal/memstore"
	"shop-backoffice/internal/shop"
)

type fixture struct {
	store    *memstore.Store
	catalog  *shop.Catalog
	ledger   *shop.OrderLedger
	payments *shop.PaymentLedger
	registry *shop.Registry

	category *shop.ProductCategory
	client   *shop.Client
	order    *shop.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	f := &fixture{
		store:    store,
		catalog:  shop.NewCatalog(store, zap.NewNop()),
		ledger:   shop.NewOrderLedger(store, zap.NewNop()),
		payments: shop.NewPaymentLedger(store, zap.NewNop()),
		registry: shop.NewRegistry(store),
	}

	var err error
	f.category, err = f.catalog.CreateCategory(ctx, "Shoes", "")
	require.NoError(t, err)
	f.client, err = f.registry.CreateClient(ctx, "Ada", "ada@example.com", "555-0100")
	require.NoError(t, err)
	f.order, err = f.ledger.OpenOrder(ctx, f.client.ID)
	require.NoError(t, err)
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *shop.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), &shop.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		CategoryID:    f.category.ID,
		StockQuantity: stock,
		Brand:         "Acme",
		Size:          "M",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func TestCreateOrderItemReservesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)

	item, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 7, f.stock(t, p.ID))

	// 8 requested against 7 on hand: rejected, stock untouched.
	_, err = f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 8)
	require.Error(t, err)
	assert.True(t, shop.IsValidation(err))
	assert.Equal(t, 7, f.stock(t, p.ID))
}

func TestCreateOrderItemRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)

	for _, quantity := range []int{0, -2} {
		_, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, quantity)
		assert.True(t, shop.IsValidation(err))
	}
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestCreateOrderItemUnknownIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)

	_, err := f.ledger.CreateOrderItem(ctx, "missing-order", p.ID, 1)
	assert.ErrorIs(t, err, shop.ErrNotFound)

	_, err = f.ledger.CreateOrderItem(ctx, f.order.ID, "missing-product", 1)
	assert.ErrorIs(t, err, shop.ErrNotFound)
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestUpdateOrderItemQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)

	item, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 7, f.stock(t, p.ID))

	// Shrinking 3 -> 1 returns two units.
	item, err = f.ledger.UpdateOrderItemQuantity(ctx, item.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 9, f.stock(t, p.ID))

	// Growing 1 -> 10 needs nine more units with nine on hand.
	item, err = f.ledger.UpdateOrderItemQuantity(ctx, item.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, 0, f.stock(t, p.ID))

	// Growing past on-hand stock is rejected and changes nothing.
	_, err = f.ledger.UpdateOrderItemQuantity(ctx, item.ID, 11)
	assert.True(t, shop.IsValidation(err))
	assert.Equal(t, 0, f.stock(t, p.ID))
	got, err := f.store.GetOrderItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}

func TestDeleteOrderItemRestocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)

	item, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 6, f.stock(t, p.ID))

	require.NoError(t, f.ledger.DeleteOrderItem(ctx, item.ID))
	assert.Equal(t, 10, f.stock(t, p.ID))

	_, err = f.store.GetOrderItem(ctx, item.ID)
	assert.ErrorIs(t, err, shop.ErrNotFound)
}

func TestRecalculateOrderTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Empty order totals zero.
	total, err := f.ledger.RecalculateOrderTotal(ctx, f.order.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	cheap := f.product(t, "Socks", "5.00", 10)
	dear := f.product(t, "Boots", "10.00", 10)
	_, err = f.ledger.CreateOrderItem(ctx, f.order.ID, cheap.ID, 2)
	require.NoError(t, err)
	_, err = f.ledger.CreateOrderItem(ctx, f.order.ID, dear.ID, 1)
	require.NoError(t, err)

	total, err = f.ledger.RecalculateOrderTotal(ctx, f.order.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("20.00")), "got %s", total)
}

func TestSaveOrderCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)
	_, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 2)
	require.NoError(t, err)

	payment, err := f.payments.CreatePayment(ctx, f.order.ID, shop.PaymentOnline)
	require.NoError(t, err)
	// The payment was opened before the item existed, so it mirrors the
	// stale zero total until the order is saved.
	assert.True(t, payment.Amount.IsZero())

	order := *f.order
	order.Status = shop.OrderShipped
	require.NoError(t, f.ledger.SaveOrder(ctx, &order))

	want := decimal.RequireFromString("10.00")
	assert.True(t, order.TotalPrice.Equal(want), "got %s", order.TotalPrice)

	stored, err := f.store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, shop.OrderShipped, stored.Status)
	assert.True(t, stored.TotalPrice.Equal(want))

	synced, err := f.store.GetPaymentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, synced.Amount.Equal(want))
}

func TestSaveOrderRejectsBadStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order := *f.order
	order.Status = "cancelled"
	err := f.ledger.SaveOrder(ctx, &order)
	assert.True(t, shop.IsValidation(err))

	stored, err := f.store.GetOrder(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, shop.OrderProcessing, stored.Status)
}

func TestSaveOrderWithoutPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)
	_, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 1)
	require.NoError(t, err)

	order := *f.order
	require.NoError(t, f.ledger.SaveOrder(ctx, &order))
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 50)

	const workers = 100
	var wg sync.WaitGroup
	var succeeded int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 50, succeeded)
	assert.Equal(t, 0, f.stock(t, p.ID))

	sold, err := f.store.SoldQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, sold)
}

func TestOrderDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)
	item, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 2)
	require.NoError(t, err)

	view, err := f.ledger.GetOrderDetail(ctx, f.order.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, item.ID, view.Items[0].ID)
	assert.Nil(t, view.Payment)

	_, err = f.payments.CreatePayment(ctx, f.order.ID, shop.PaymentCreditCard)
	require.NoError(t, err)
	view, err = f.ledger.GetOrderDetail(ctx, f.order.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Payment)
	assert.Equal(t, shop.PaymentCreditCard, view.Payment.Method)
}
