package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pet-shop-platform/internal/ports/images"
)

// Local guarda las imágenes como archivos dentro de un directorio.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", images.ErrNotFound
	}
	return filepath.Join(l.dir, name), nil
}

func (l *Local) Save(_ context.Context, name string, body io.Reader, _ images.Info) error {
	p, err := l.path(name)
	if err != nil {
		return fmt.Errorf("invalid image name %q", name)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return err
	}
	return f.Close()
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, images.Info, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, images.Info{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, images.Info{}, images.ErrNotFound
		}
		return nil, images.Info{}, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, images.Info{}, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, images.Info{}, images.ErrNotFound
	}

	ct, err := contentType(f, name)
	if err != nil {
		_ = f.Close()
		return nil, images.Info{}, err
	}
	return f, images.Info{ContentType: ct, Size: st.Size()}, nil
}

func (l *Local) Remove(_ context.Context, name string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return images.ErrNotFound
		}
		return err
	}
	return nil
}

// contentType usa la extensión y, si no alcanza, los primeros bytes del archivo.
func contentType(f *os.File, name string) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct, nil
	}
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
