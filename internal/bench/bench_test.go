package bench_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-backoffice/internal/bench"
	"shop-backoffice/internal/memstore"
	"shop-backoffice/internal/shop"
)

func TestReservationLoadKeepsStockIntact(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}
	ctx := context.Background()
	store := memstore.New()

	load := &bench.ReservationLoad{
		Store:        store,
		Ledger:       shop.NewOrderLedger(store, zap.NewNop()),
		Concurrency:  8,
		Duration:     200 * time.Millisecond,
		MaxQuantity:  3,
		InitialStock: 5, // small on purpose: rejections must not leak stock
		Logger:       zap.NewNop(),
	}
	require.NoError(t, load.Setup(ctx))

	result, err := load.Run(ctx)
	require.NoError(t, err)

	assert.True(t, result.StockIntact, "stock accounting drifted: %+v", result)
	assert.Zero(t, result.Errors)
	assert.Positive(t, result.Operations)
}
