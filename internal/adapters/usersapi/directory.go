package usersapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-shop-platform/internal/domain/pets"
	"pet-shop-platform/internal/platform/httpclient"
)

var ErrNotConfigured = errors.New("users service url not configured")

// Directory implementa pets.Directory contra el servicio de usuarios,
// con una sola llamada por lote (?ids=1,2,3).
type Directory struct {
	hc *httpclient.Client
}

// New recibe la URL base del servicio, p. ej. http://localhost:4001/api/users.
func New(baseURL string, timeout time.Duration) (*Directory, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Directory{hc: hc}, nil
}

type userDTO struct {
	IdUser int64  `json:"IdUser"`
	Name   string `json:"Name"`
}

type veterinarianDTO struct {
	IdVeterinarian int64     `json:"IdVeterinarian"`
	Name           string    `json:"Name"`
	Clinic         string    `json:"Clinic"`
	Phone          string    `json:"Phone"`
	Rfc            string    `json:"Rfc"`
	Email          string    `json:"Email"`
	Adress         string    `json:"Adress"`
	CreatedAt      time.Time `json:"CreatedAt"`
}

// OwnerNames devuelve IdUser -> Name. Los ids que el servicio no conoce no aparecen.
func (d *Directory) OwnerNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []userDTO
	if err := d.hc.DoJSON(ctx, http.MethodGet, "/", idsQuery(ids), nil, &items); err != nil {
		return nil, err
	}
	for _, u := range items {
		out[u.IdUser] = u.Name
	}
	return out, nil
}

func (d *Directory) Veterinarians(ctx context.Context, ids []int64) (map[int64]pets.Veterinarian, error) {
	out := make(map[int64]pets.Veterinarian, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []veterinarianDTO
	if err := d.hc.DoJSON(ctx, http.MethodGet, "/getVeterinarians", idsQuery(ids), nil, &items); err != nil {
		return nil, err
	}
	for _, v := range items {
		out[v.IdVeterinarian] = pets.Veterinarian{
			ID:        v.IdVeterinarian,
			Name:      v.Name,
			Clinic:    v.Clinic,
			Phone:     v.Phone,
			Rfc:       v.Rfc,
			Email:     v.Email,
			Address:   v.Adress,
			CreatedAt: v.CreatedAt,
		}
	}
	return out, nil
}

func idsQuery(ids []int64) url.Values {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return url.Values{"ids": []string{strings.Join(parts, ",")}}
}
