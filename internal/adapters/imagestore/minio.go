package imagestore

import (
	"context"
	"fmt"
	"io"

	"pet-shop-platform/internal/ports/images"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Minio guarda las imágenes como objetos de un bucket.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio conecta y crea el bucket si no existe.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func (m *Minio) Save(ctx context.Context, name string, body io.Reader, info images.Info) error {
	size := info.Size
	if size <= 0 {
		size = -1
	}
	_, err := m.client.PutObject(ctx, m.bucket, name, body, size,
		minio.PutObjectOptions{ContentType: info.ContentType})
	return err
}

func (m *Minio) Open(ctx context.Context, name string) (io.ReadCloser, images.Info, error) {
	st, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, images.Info{}, mapMinioErr(err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, images.Info{}, mapMinioErr(err)
	}
	return obj, images.Info{ContentType: st.ContentType, Size: st.Size}, nil
}

func (m *Minio) Remove(ctx context.Context, name string) error {
	return mapMinioErr(m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}))
}

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return images.ErrNotFound
	}
	return fmt.Errorf("minio: %w", err)
}
