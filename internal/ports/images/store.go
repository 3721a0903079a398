package images

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("image not found")

// Info describe una imagen guardada.
type Info struct {
	ContentType string
	Size        int64
}

// Store guarda imágenes subidas bajo un nombre ya generado (p. ej. pet_<uuid>.jpg).
type Store interface {
	Save(ctx context.Context, name string, body io.Reader, info Info) error
	// Open devuelve ErrNotFound si el nombre no existe.
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)
	Remove(ctx context.Context, name string) error
}
