package main

import (
	"context"
	"os"

	"pet-shop-platform/internal/adapters/auth/tokens"
	"pet-shop-platform/internal/config"
	"pet-shop-platform/internal/platform/logger"
	"pet-shop-platform/internal/platform/server"
	"pet-shop-platform/internal/platform/telemetry"
	"pet-shop-platform/internal/router"
)

func main() {
	config.Load()
	cfg := config.LoadGateway()

	log := logger.NewFromEnv("gateway")
	defer func() { _ = log.Sync() }()

	shutdown, err := telemetry.Init(context.Background(), "gateway", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("telemetry init failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer func() { _ = shutdown(context.Background()) }()

	h, err := router.NewGateway(router.GatewayOptions{
		Common: router.Common{
			CORSOrigins:  cfg.CORSOrigins,
			AuthVerifier: tokens.NewJWT(cfg.JWTSecret, 0),
			Log:          log,
		},
		ProductsURL: cfg.ProductsURL,
		UsersURL:    cfg.UsersURL,
		PetsURL:     cfg.PetsURL,
		UploadsURL:  cfg.PetsUploadsURL,
		ImagesDir:   cfg.ProductImagesDir,
	})
	if err != nil {
		log.Error("gateway setup failed", map[string]any{"err": err})
		os.Exit(1)
	}

	if err := server.Run(":"+cfg.Port, h, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		os.Exit(1)
	}
}
