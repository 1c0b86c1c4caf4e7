package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"shop-backoffice/internal/config"
	"shop-backoffice/internal/database"
	"shop-backoffice/internal/memstore"
	"shop-backoffice/internal/server"
	"shop-backoffice/internal/shop"
	"shop-backoffice/internal/sqlstore"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	storeType := flag.String("store", "postgres", "store backend (postgres, mysql, or memory)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", *configPath), zap.Error(err))
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
			logger.Fatal("failed to connect", zap.String("store", *storeType), zap.Error(err))
		}
		defer driver.Close()
		if err := sqlstore.EnsureSchema(ctx, driver); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
		store = sqlstore.New(driver)
	default:
		logger.Fatal("unsupported store backend", zap.String("store", *storeType))
	}

	catalog := shop.NewCatalog(store, logger)
	ledger := shop.NewOrderLedger(store, logger)
	payments := shop.NewPaymentLedger(store, logger)
	registry := shop.NewRegistry(store)

	srv := server.New(catalog, ledger, payments, registry, store, logger)
	router := srv.Router(cfg.HTTP.AllowedOrigins)

	logger.Info("back-office listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("store", *storeType))
	if err := router.Run(cfg.HTTP.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
