package main

import (
	"context"
	"os"

	pg "pet-shop-platform/internal/adapters/storage/postgres"
	"pet-shop-platform/internal/config"
	"pet-shop-platform/internal/platform/logger"
	"pet-shop-platform/internal/platform/server"
	"pet-shop-platform/internal/platform/telemetry"
	"pet-shop-platform/internal/router"
)

func main() {
	config.Load()
	cfg := config.LoadProducts()

	log := logger.NewFromEnv("products")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx, "products", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("telemetry init failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer func() { _ = shutdown(context.Background()) }()

	db, err := pg.Open(ctx, cfg.DB.ConnString())
	if err != nil {
		log.Error("database connection failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer db.Close()

	h := router.NewProducts(router.ProductsOptions{
		Common:       router.Common{CORSOrigins: cfg.CORSOrigins, Log: log},
		DB:           db,
		ImageBaseURL: cfg.PublicBaseURL,
	})

	if err := server.Run(":"+cfg.Port, h, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		os.Exit(1)
	}
}
