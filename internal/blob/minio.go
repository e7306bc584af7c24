package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"docvault/internal/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store on a MinIO (or any S3-compatible) backend.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// MinioConfig holds the connection settings for the MinIO backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("bucket created", "bucket", cfg.Bucket)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put writes an object under key.
func (s *MinioStore) Put(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Get opens a lazy byte stream for the object. MinIO defers the actual read,
// so a missing key surfaces on the first Read rather than here.
func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	return obj, nil
}

// Stat reports whether the object exists.
func (s *MinioStore) Stat(ctx context.Context, key string) error {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return fmt.Errorf("object %q: %w", key, domain.ErrNotFound)
		}
		return fmt.Errorf("stat object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object. MinIO treats removing a missing key as success.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}
