package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/lumenjournal/lumen-backend/internal/config"
)

// GCS stores exported report artifacts in a Google Cloud Storage bucket and
// issues time-limited download links for them. The bucket is private;
// artifacts are only reachable through signed URLs.
type GCS struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
}

// NewGCS creates a GCS store from config. Credentials come from the
// explicit service-account JSON when configured, otherwise from Application
// Default Credentials.
func NewGCS(ctx context.Context, cfg config.StorageConfig) (*GCS, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}

	return &GCS{
		client: client,
		bucket: cfg.Bucket,
		ttl:    cfg.SignedURLTTL,
	}, nil
}

// Publish uploads the artifact under objectKey and returns a V4-signed GET
// URL for it together with the URL's expiry. Re-publishing the same key
// overwrites the previous artifact.
func (s *GCS) Publish(ctx context.Context, objectKey, contentType string, data []byte) (string, time.Time, error) {
	bucket := s.client.Bucket(s.bucket)

	wc := bucket.Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return "", time.Time{}, fmt.Errorf("storage: write object %q: %w", objectKey, err)
	}
	if err := wc.Close(); err != nil {
		return "", time.Time{}, fmt.Errorf("storage: finalize object %q: %w", objectKey, err)
	}

	expiresAt := time.Now().Add(s.ttl)
	url, err := bucket.SignedURL(objectKey, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: expiresAt,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: sign url for %q: %w", objectKey, err)
	}

	return url, expiresAt, nil
}

// Close releases the underlying client.
func (s *GCS) Close() error {
	return s.client.Close()
}
