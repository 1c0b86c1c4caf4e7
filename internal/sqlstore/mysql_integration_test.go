//go:build integration
// +build integration

package sqlstore_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"go.uber.org/zap"

	"shop-backoffice/internal/database"
	"shop-backoffice/internal/shop"
	"shop-backoffice/internal/sqlstore"
)

func setupMySQLStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx,
		"mysql:8.0",
		tcmysql.WithDatabase("shop"),
		tcmysql.WithUsername("shop"),
		tcmysql.WithPassword("shop"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	driver := &database.MySQLDriver{}
	require.NoError(t, driver.Connect(ctx, connStr))
	t.Cleanup(func() { driver.Close() })

	require.NoError(t, sqlstore.EnsureSchema(ctx, driver))
	return sqlstore.New(driver)
}

func TestReservationRoundTripMySQL(t *testing.T) {
	ctx := context.Background()
	store := setupMySQLStore(t)

	catalog := shop.NewCatalog(store, zap.NewNop())
	ledger := shop.NewOrderLedger(store, zap.NewNop())
	registry := shop.NewRegistry(store)

	category, err := catalog.CreateCategory(ctx, "Shoes", "boots and sneakers")
	require.NoError(t, err)
	product, err := catalog.CreateProduct(ctx, &shop.Product{
		Name:          "Sneaker",
		Price:         decimal.RequireFromString("5.00"),
		CategoryID:    category.ID,
		StockQuantity: 10,
		Brand:         "Acme",
		Size:          "42",
	})
	require.NoError(t, err)
	client, err := registry.CreateClient(ctx, "Ada", "ada@example.com", "")
	require.NoError(t, err)
	order, err := ledger.OpenOrder(ctx, client.ID)
	require.NoError(t, err)

	item, err := ledger.CreateOrderItem(ctx, order.ID, product.ID, 3)
	require.NoError(t, err)

	got, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockQuantity)

	// Writing the quantity it already has must not look like a missing row.
	_, err = ledger.UpdateOrderItemQuantity(ctx, item.ID, 3)
	require.NoError(t, err)

	_, err = ledger.CreateOrderItem(ctx, order.ID, product.ID, 8)
	assert.True(t, shop.IsValidation(err))
	got, err = store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockQuantity)

	require.NoError(t, ledger.DeleteOrderItem(ctx, item.ID))
	got, err = store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)
}

// Saving an unchanged order rewrites the same total and payment amount;
// MySQL reports such statements as zero changed rows, which must not be
// read as the order having vanished.
func TestRepeatedSaveOrderMySQL(t *testing.T) {
	ctx := context.Background()
	store := setupMySQLStore(t)

	catalog := shop.NewCatalog(store, zap.NewNop())
	ledger := shop.NewOrderLedger(store, zap.NewNop())
	payments := shop.NewPaymentLedger(store, zap.NewNop())
	registry := shop.NewRegistry(store)

	category, err := catalog.CreateCategory(ctx, "Shoes", "")
	require.NoError(t, err)
	product, err := catalog.CreateProduct(ctx, &shop.Product{
		Name:          "Boot",
		Price:         decimal.RequireFromString("10.00"),
		CategoryID:    category.ID,
		StockQuantity: 10,
		Brand:         "Acme",
		Size:          "42",
	})
	require.NoError(t, err)
	client, err := registry.CreateClient(ctx, "Bob", "bob@example.com", "")
	require.NoError(t, err)
	order, err := ledger.OpenOrder(ctx, client.ID)
	require.NoError(t, err)

	_, err = ledger.CreateOrderItem(ctx, order.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = payments.CreatePayment(ctx, order.ID, shop.PaymentOnline)
	require.NoError(t, err)

	require.NoError(t, ledger.SaveOrder(ctx, order))

	// Second save with only a status change: the total is recomputed to
	// the value already stored and the payment is already in sync.
	order.Status = shop.OrderShipped
	require.NoError(t, ledger.SaveOrder(ctx, order))
	require.NoError(t, ledger.SaveOrder(ctx, order))

	require.NoError(t, payments.SyncAmount(ctx, order.ID))

	want := decimal.RequireFromString("20.00")
	stored, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, shop.OrderShipped, stored.Status)
	assert.True(t, stored.TotalPrice.Equal(want), "got %s", stored.TotalPrice)

	payment, err := store.GetPaymentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(want), "got %s", payment.Amount)
}
