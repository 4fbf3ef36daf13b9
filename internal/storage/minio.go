package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/atjgmj/data-intelligence-platform/internal/config"
)

// MinioStore implements ObjectStore on a MinIO (or any S3-compatible)
// endpoint.
type MinioStore struct {
	client  *minio.Client
	buckets []string
	logger  *zap.Logger
}

func NewMinioStore(cfg *config.Config, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	return &MinioStore{
		client:  client,
		buckets: cfg.Buckets(),
		logger:  logger,
	}, nil
}

func (s *MinioStore) EnsureBuckets(ctx context.Context) {
	for _, bucket := range s.buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			s.logger.Error("Failed to check bucket existence", zap.String("bucket", bucket), zap.Error(err))
			continue
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			s.logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		}
	}
}

func (s *MinioStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %v", ErrStorageUnavailable, bucket, key, err)
	}
	return nil
}

func (s *MinioStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", ErrStorageUnavailable, bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// The client reports a missing key lazily, on first read.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("%w: read %s/%s: %v", ErrStorageUnavailable, bucket, key, err)
	}
	return data, nil
}

func (s *MinioStore) Delete(ctx context.Context, bucket, key string) bool {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("Failed to delete object", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *MinioStore) Ping(ctx context.Context) error {
	if len(s.buckets) == 0 {
		return nil
	}
	if _, err := s.client.BucketExists(ctx, s.buckets[0]); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
