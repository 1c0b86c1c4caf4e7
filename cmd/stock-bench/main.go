package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"shop-backoffice/internal/bench"
	"shop-backoffice/internal/config"
	"shop-backoffice/internal/database"
	"shop-backoffice/internal/memstore"
	"shop-backoffice/internal/shop"
	"shop-backoffice/internal/sqlstore"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "config.yaml", "path to the config file")
	storeType := flag.String("store", "postgres", "store backend (postgres, mysql, or memory)")
	concurrency := flag.Int("concurrency", 0, "number of concurrent workers (0 = config default)")
	duration := flag.Duration("duration", 0, "length of the run (0 = config default)")
	initialStock := flag.Int("stock", 100, "seeded on-hand stock for the bench product")
	maxQuantity := flag.Int("max-quantity", 3, "largest per-item quantity drawn")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		exitCode = 1
		return
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		exitCode = 1
		return
	}
	if *concurrency == 0 {
		*concurrency = cfg.BenchSettings.DefaultConcurrency
	}
	if *duration == 0 {
		d, err := cfg.BenchSettings.Duration()
		if err != nil {
			logger.Error("bad default duration", zap.Error(err))
			exitCode = 1
			return
		}
		*duration = d
	}

	ctx := context.Background()

	var store shop.Store
	switch *storeType {
	case "memory":
		store = memstore.New()
	case "postgres", "mysql":
		var driver database.Driver
		var dsn string
		if *storeType == "postgres" {
			driver = &database.PostgresDriver{}
			dsn = cfg.Databases.Postgres
		} else {
			driver = &database.MySQLDriver{}
			dsn = cfg.Databases.MySQL
		}
		if err := driver.Connect(ctx, dsn); err != nil {
			logger.Error("failed to connect", zap.String("store", *storeType), zap.Error(err))
			exitCode = 1
			return
		}
		defer driver.Close()
		if err := sqlstore.EnsureSchema(ctx, driver); err != nil {
			logger.Error("failed to apply schema", zap.Error(err))
			exitCode = 1
			return
		}
		store = sqlstore.New(driver)
	default:
		logger.Error("unsupported store backend", zap.String("store", *storeType))
		exitCode = 1
		return
	}

	load := &bench.ReservationLoad{
		Store:        store,
		Ledger:       shop.NewOrderLedger(store, zap.NewNop()),
		Concurrency:  *concurrency,
		Duration:     *duration,
		MaxQuantity:  *maxQuantity,
		InitialStock: *initialStock,
		Logger:       logger,
	}

	if err := load.Setup(ctx); err != nil {
		logger.Error("setup failed", zap.Error(err))
		exitCode = 1
		return
	}

	fmt.Printf("Running reservation load on %s for %s with %d workers...\n",
		*storeType, *duration, *concurrency)

	result, err := load.Run(ctx)
	if err != nil {
		logger.Error("load failed", zap.Error(err))
		exitCode = 1
		return
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("failed to marshal result", zap.Error(err))
		exitCode = 1
		return
	}
	fmt.Println(string(jsonOutput))
}
