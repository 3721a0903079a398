package main

import (
	"context"
	"fmt"
	"os"

	"pet-shop-platform/internal/adapters/cache"
	"pet-shop-platform/internal/adapters/imagestore"
	pg "pet-shop-platform/internal/adapters/storage/postgres"
	"pet-shop-platform/internal/adapters/usersapi"
	"pet-shop-platform/internal/config"
	"pet-shop-platform/internal/domain/pets"
	"pet-shop-platform/internal/platform/logger"
	"pet-shop-platform/internal/platform/server"
	"pet-shop-platform/internal/platform/telemetry"
	"pet-shop-platform/internal/ports/images"
	"pet-shop-platform/internal/router"

	"github.com/redis/go-redis/v9"
)

func main() {
	config.Load()
	cfg := config.LoadPets()

	log := logger.NewFromEnv("pets")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("pets service stopped", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Pets, log logger.Logger) error {
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx, "pets", cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	db, err := pg.Open(ctx, cfg.DB.ConnString())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	store, err := newImageStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}

	var dir pets.Directory
	dir, err = usersapi.New(cfg.UsersServiceURL, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("users directory: %w", err)
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// sin cache se sigue funcionando
			log.Warn("redis unavailable, directory cache disabled", map[string]any{"err": err})
		} else {
			dir = cache.NewDirectory(dir, rdb, cfg.Redis.TTL, log)
		}
	}

	h, err := router.NewPets(router.PetsOptions{
		Common:         router.Common{CORSOrigins: cfg.CORSOrigins, Log: log},
		DB:             db,
		Directory:      dir,
		Images:         store,
		ImageBaseURL:   cfg.PublicBaseURL,
		AdoptionStatus: cfg.AdoptionStatus,
	})
	if err != nil {
		return err
	}

	return server.Run(":"+cfg.Port, h, log)
}

func newImageStore(ctx context.Context, cfg config.Pets) (images.Store, error) {
	switch cfg.ImageStore {
	case "minio":
		return imagestore.NewMinio(ctx, imagestore.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	case "local", "":
		return imagestore.NewLocal(cfg.UploadsDir)
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}
}
