package shop_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backoffice/internal/shop"
)

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []struct {
		name    string
		product shop.Product
	}{
		{"empty name", shop.Product{CategoryID: f.category.ID, Price: decimal.NewFromInt(1)}},
		{"negative price", shop.Product{Name: "x", CategoryID: f.category.ID, Price: decimal.NewFromInt(-1)}},
		{"negative stock", shop.Product{Name: "x", CategoryID: f.category.ID, StockQuantity: -1}},
		{"bad gender", shop.Product{Name: "x", CategoryID: f.category.ID, Gender: "robot"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.catalog.CreateProduct(ctx, &tc.product)
			assert.True(t, shop.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	_, err := f.catalog.CreateProduct(ctx, &shop.Product{Name: "x", CategoryID: "missing"})
	assert.ErrorIs(t, err, shop.ErrNotFound)
}

func TestCreateProductDefaultsGender(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.catalog.CreateProduct(ctx, &shop.Product{
		Name:       "Scarf",
		CategoryID: f.category.ID,
		Price:      decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.Equal(t, shop.GenderUnisex, p.Gender)
}

func TestSoldAndRemainingStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)

	sold, err := f.catalog.SoldQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sold)

	_, err = f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 3)
	require.NoError(t, err)

	sold, err = f.catalog.SoldQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sold)

	// On-hand already dropped to 7, so the display-only remaining figure
	// double-counts the reservation: 7 - 3 = 4.
	remaining, err := f.catalog.RemainingStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	_, err = f.catalog.SoldQuantity(ctx, "missing")
	assert.ErrorIs(t, err, shop.ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other, err := f.catalog.CreateCategory(ctx, "Hats", "")
	require.NoError(t, err)

	f.product(t, "Blue Sneaker", "5.00", 1)
	f.product(t, "Red Sneaker", "5.00", 1)
	hat, err := f.catalog.CreateProduct(ctx, &shop.Product{
		Name: "Sneaker Cap", CategoryID: other.ID, Price: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	all, err := f.catalog.SearchProducts(ctx, "sneaker", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	hats, err := f.catalog.SearchProducts(ctx, "sneaker", other.ID)
	require.NoError(t, err)
	require.Len(t, hats, 1)
	assert.Equal(t, hat.ID, hats[0].ID)

	none, err := f.catalog.SearchProducts(ctx, "boot", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPaymentLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sneaker", "5.00", 10)
	_, err := f.ledger.CreateOrderItem(ctx, f.order.ID, p.ID, 2)
	require.NoError(t, err)

	_, err = f.payments.CreatePayment(ctx, f.order.ID, "barter")
	assert.True(t, shop.IsValidation(err))

	_, err = f.payments.CreatePayment(ctx, "missing", shop.PaymentOnline)
	assert.ErrorIs(t, err, shop.ErrNotFound)

	payment, err := f.payments.CreatePayment(ctx, f.order.ID, shop.PaymentOnline)
	require.NoError(t, err)

	// Push a fresh total onto the order, then sync the payment to it.
	order := *f.order
	require.NoError(t, f.ledger.SaveOrder(ctx, &order))
	require.NoError(t, f.payments.SyncAmount(ctx, f.order.ID))

	synced, err := f.store.GetPaymentByOrder(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, synced.ID)
	assert.True(t, synced.Amount.Equal(decimal.RequireFromString("10.00")))
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.registry.CreateClient(ctx, "", "b@example.com", "")
	assert.True(t, shop.IsValidation(err))

	_, err = f.registry.CreateClient(ctx, "Bob", "not-an-email", "")
	assert.True(t, shop.IsValidation(err))

	_, err = f.registry.CreateClient(ctx, "Bob", "ada@example.com", "")
	assert.ErrorIs(t, err, shop.ErrDuplicateEmail)

	clients, err := f.registry.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}
