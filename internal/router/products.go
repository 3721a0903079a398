package router

import (
	"database/sql"
	"net/http"

	mem "pet-shop-platform/internal/adapters/storage/memory"
	pg "pet-shop-platform/internal/adapters/storage/postgres"
	"pet-shop-platform/internal/domain/products"
)

type ProductsOptions struct {
	Common

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
	// Opcional, tiene prioridad sobre DB (tests).
	Repo products.Repository

	ImageBaseURL string
}

func NewProducts(opts ProductsOptions) http.Handler {
	r, log := newBase("products", opts.Common)

	repo := opts.Repo
	switch {
	case repo != nil:
	case opts.DB != nil:
		repo = pg.NewProductsRepo(opts.DB)
	default:
		repo = mem.NewProductsRepo()
	}

	products.RegisterRoutes(r, products.NewService(repo), products.HandlerOptions{
		ImageBaseURL: opts.ImageBaseURL,
		Log:          log,
	})
	return r
}
