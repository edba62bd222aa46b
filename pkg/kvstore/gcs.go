package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

// GCSConfig holds configuration for the Cloud Storage backed store.
type GCSConfig struct {
	BucketName   string
	ObjectPrefix string
}

// GCSStore keeps one object per key in a bucket, under an optional prefix.
type GCSStore struct {
	client GCSClient
	config GCSConfig
	logger zerolog.Logger
}

// NewGCSStore creates a new store on top of an adapted GCS client.
func NewGCSStore(gcsClient GCSClient, config GCSConfig, logger zerolog.Logger) (*GCSStore, error) {
	if gcsClient == nil {
		return nil, errors.New("GCS client cannot be nil")
	}
	if config.BucketName == "" {
		return nil, errors.New("GCS bucket name is required")
	}
	return &GCSStore{
		client: gcsClient,
		config: config,
		logger: logger.With().Str("component", "GCSStore").Logger(),
	}, nil
}

func (s *GCSStore) object(key string) GCSObjectHandle {
	return s.client.Bucket(s.config.BucketName).Object(path.Join(s.config.ObjectPrefix, key))
}

// Get downloads the object for key.
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("key '%s': %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("gcs read for %s: %w", key, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read for %s: %w", key, err)
	}
	return data, nil
}

// Set uploads value as the object for key. The write is only committed when the writer closes.
func (s *GCSStore) Set(ctx context.Context, key string, value []byte) error {
	w := s.object(key).NewWriter(ctx)
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs write for %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to finalize GCS object.")
		return fmt.Errorf("gcs close writer for %s: %w", key, err)
	}
	return nil
}

// Delete removes the object for key.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if err := s.object(key).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete for %s: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *GCSStore) Ping(ctx context.Context) error {
	if err := s.client.Bucket(s.config.BucketName).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs ping on bucket %s: %w", s.config.BucketName, err)
	}
	return nil
}

// Close is a no-op; the storage client is owned by the caller.
func (s *GCSStore) Close() error {
	return nil
}
