package router

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	mem "pet-shop-platform/internal/adapters/storage/memory"
	pg "pet-shop-platform/internal/adapters/storage/postgres"
	"pet-shop-platform/internal/adapters/usersapi"
	"pet-shop-platform/internal/domain/pets"
	"pet-shop-platform/internal/ports/images"
)

var ErrNoImageStore = errors.New("pets router: image store is required")

type PetsOptions struct {
	Common

	DB   *sql.DB
	Repo pets.Repository

	// Directory tiene prioridad; si no viene se usa el servicio de usuarios por HTTP.
	Directory       pets.Directory
	UsersServiceURL string
	HTTPTimeout     time.Duration

	Images images.Store

	ImageBaseURL   string
	AdoptionStatus string
	MaxUploadBytes int64
}

func NewPets(opts PetsOptions) (http.Handler, error) {
	if opts.Images == nil {
		return nil, ErrNoImageStore
	}
	r, log := newBase("pets", opts.Common)

	repo := opts.Repo
	switch {
	case repo != nil:
	case opts.DB != nil:
		repo = pg.NewPetsRepo(opts.DB)
	default:
		repo = mem.NewPetsRepo()
	}

	dir := opts.Directory
	if dir == nil {
		d, err := usersapi.New(opts.UsersServiceURL, opts.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		dir = d
	}

	svc := pets.NewService(repo, dir, opts.Images, pets.Options{
		AdoptionStatus: opts.AdoptionStatus,
		Log:            log,
	})
	pets.RegisterRoutes(r, svc, pets.HandlerOptions{
		ImageBaseURL:   opts.ImageBaseURL,
		MaxUploadBytes: opts.MaxUploadBytes,
		Log:            log,
	})
	return r, nil
}
