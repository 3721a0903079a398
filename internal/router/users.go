package router

import (
	"database/sql"
	"net/http"
	"time"

	"pet-shop-platform/internal/adapters/auth/passwords"
	"pet-shop-platform/internal/adapters/auth/tokens"
	mem "pet-shop-platform/internal/adapters/storage/memory"
	pg "pet-shop-platform/internal/adapters/storage/postgres"
	"pet-shop-platform/internal/domain/users"
)

type UsersOptions struct {
	Common

	DB   *sql.DB
	Repo users.Repository

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int // 0 = passwords.DefaultCost
}

func NewUsers(opts UsersOptions) http.Handler {
	r, log := newBase("users", opts.Common)

	repo := opts.Repo
	switch {
	case repo != nil:
	case opts.DB != nil:
		repo = pg.NewUsersRepo(opts.DB)
	default:
		repo = mem.NewUsersRepo()
	}

	svc := users.NewService(repo,
		passwords.NewBcrypt(opts.BcryptCost),
		tokens.NewJWT(opts.JWTSecret, opts.TokenTTL),
	)
	users.RegisterRoutes(r, svc, log)
	return r
}
