package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aidarkhanov/nanoid/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"socialnet-api/config"
)

const (
	keyPrefix      = "user-uploads"
	nanoidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// PhotoStore accepts a blob and returns the public URL it can be read from.
type PhotoStore interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

type MinioPhotoStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioPhotoStore(cfg config.StorageConfig) (*MinioPhotoStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &MinioPhotoStore{client: client, bucket: cfg.Bucket, publicURL: base}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *MinioPhotoStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

func (s *MinioPhotoStore) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key, err := ObjectKey(filename, time.Now())
	if err != nil {
		return "", err
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.URL(key), nil
}

func (s *MinioPhotoStore) URL(key string) string {
	return s.publicURL + "/" + s.bucket + "/" + key
}

// ObjectKey builds user-uploads/<unix-ms>-<nanoid>-<name>. The client's
// file name is reduced to a safe base name.
func ObjectKey(filename string, now time.Time) (string, error) {
	id, err := nanoid.GenerateString(nanoidAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("object id: %w", err)
	}
	return fmt.Sprintf("%s/%d-%s-%s", keyPrefix, now.UnixMilli(), id, cleanName(filename)), nil
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}
