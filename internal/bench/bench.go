// Package bench exercises the order ledger under concurrent load and
// reports latency and integrity figures. It exists to validate the
// reservation path's accounting: however many goroutines race over one
// product, on-hand stock must never go negative and must balance exactly
// once the run drains.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-backoffice/internal/shop"
)

type Result struct {
	Operations     int64         `json:"operations"`
	Errors         int64         `json:"errors"`
	Rejections     int64         `json:"rejections"`
	Throughput     float64       `json:"throughput"`
	AverageLatency time.Duration `json:"average_latency"`
	P95Latency     time.Duration `json:"p95_latency"`
	P99Latency     time.Duration `json:"p99_latency"`
	TotalTime      time.Duration `json:"total_time"`
	StockIntact    bool          `json:"stock_intact"`
}

// ReservationLoad hammers one product with create/delete item cycles.
type ReservationLoad struct {
	Store       shop.Store
	Ledger      *shop.OrderLedger
	Concurrency int
	Duration    time.Duration
	// MaxQuantity caps the per-item quantity; quantities are drawn
	// uniformly from [1, MaxQuantity].
	MaxQuantity int
	// InitialStock seeds the product counter. Small values force
	// rejections, which is the interesting regime.
	InitialStock int
	Logger       *zap.Logger

	productID string
	orderID   string
}

// Setup seeds the category, product, client, and order the load runs
// against. The seed rows stay behind; run against a scratch database.
func (t *ReservationLoad) Setup(ctx context.Context) error {
	if t.MaxQuantity <= 0 {
		t.MaxQuantity = 3
	}
	if t.InitialStock <= 0 {
		t.InitialStock = 100
	}
	if t.Logger == nil {
		t.Logger = zap.NewNop()
	}

	now := time.Now().UTC()
	category := &shop.ProductCategory{ID: uuid.NewString(), Name: "bench", CreatedAt: now}
	if err := t.Store.CreateCategory(ctx, category); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	product := &shop.Product{
		ID:            uuid.NewString(),
		Name:          "bench product",
		Price:         decimal.NewFromFloat(9.99),
		CategoryID:    category.ID,
		StockQuantity: t.InitialStock,
		Gender:        shop.GenderUnisex,
		Brand:         "bench",
		Size:          "one",
	}
	if err := t.Store.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("seed product: %w", err)
	}
	client := &shop.Client{
		ID:    uuid.NewString(),
		Name:  "bench client",
		Email: uuid.NewString() + "@bench.local",
	}
	if err := t.Store.CreateClient(ctx, client); err != nil {
		return fmt.Errorf("seed client: %w", err)
	}
	order := &shop.Order{
		ID:          uuid.NewString(),
		ClientID:    client.ID,
		DateOrdered: now,
		Status:      shop.OrderProcessing,
		TotalPrice:  decimal.Zero,
	}
	if err := t.Store.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	t.productID = product.ID
	t.orderID = order.ID
	return nil
}

// Run races Concurrency goroutines, each looping reserve-then-release
// against the seeded product until Duration elapses.
func (t *ReservationLoad) Run(ctx context.Context) (*Result, error) {
	var wg sync.WaitGroup
	var operations, rejections, errs uint64

	// Max latency of 10 seconds, significant figures of 3
	histogram := hdrhistogram.New(1, 10000000000, 3)
	var histMu sync.Mutex

	start := time.Now()
	deadline := start.Add(t.Duration)

	for i := 0; i < t.Concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)))
			for time.Now().Before(deadline) {
				quantity := 1 + rng.Intn(t.MaxQuantity)
				opStart := time.Now()
				item, err := t.Ledger.CreateOrderItem(ctx, t.orderID, t.productID, quantity)
				switch {
				case shop.IsValidation(err):
					atomic.AddUint64(&rejections, 1)
					continue
				case err != nil:
					atomic.AddUint64(&errs, 1)
					continue
				}
				if err := t.Ledger.DeleteOrderItem(ctx, item.ID); err != nil {
					atomic.AddUint64(&errs, 1)
					continue
				}
				atomic.AddUint64(&operations, 1)
				latency := time.Since(opStart)
				histMu.Lock()
				histogram.RecordValue(latency.Microseconds())
				histMu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	totalTime := time.Since(start)

	product, err := t.Store.GetProduct(ctx, t.productID)
	if err != nil {
		return nil, fmt.Errorf("read back product: %w", err)
	}
	t.Logger.Info("load finished",
		zap.Uint64("operations", operations),
		zap.Uint64("rejections", rejections),
		zap.Int("final_stock", product.StockQuantity))

	result := &Result{
		Operations:     int64(operations),
		Errors:         int64(errs),
		Rejections:     int64(rejections),
		Throughput:     float64(operations) / totalTime.Seconds(),
		AverageLatency: time.Duration(histogram.Mean()) * time.Microsecond,
		P95Latency:     time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99Latency:     time.Duration(histogram.ValueAtQuantile(99)) * time.Microsecond,
		TotalTime:      totalTime,
		StockIntact:    product.StockQuantity == t.InitialStock && product.StockQuantity >= 0,
	}
	return result, nil
}
