package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSSource reads dataset files from Google Cloud Storage.
type GCSSource struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSSource creates a GCS-backed Source.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSSource(ctx context.Context, bucket, prefix string) (*GCSSource, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSSource{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := objectKey(s.prefix, name)
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: gs://%s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSSource) String() string { return "gs://" + objectKey(s.bucket, s.prefix) }

// Close releases the underlying client.
func (s *GCSSource) Close() error { return s.client.Close() }
