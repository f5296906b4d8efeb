package repository

import (
	"context"
	"fmt"

	"resume-parser/internal/domain"
)

// ObjectBucket is the object store a SupabaseStorage writes through.
type ObjectBucket interface {
	Upload(bucket, path string, data []byte, contentType string) error
	Download(bucket, path string) ([]byte, error)
}

// SupabaseStorage keeps durable files in a Supabase Storage bucket.
type SupabaseStorage struct {
	client ObjectBucket
	bucket string
	logger domain.Logger
}

func NewSupabaseStorage(client ObjectBucket, bucket string, logger domain.Logger) *SupabaseStorage {
	return &SupabaseStorage{client: client, bucket: bucket, logger: logger}
}

func (s *SupabaseStorage) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Upload(s.bucket, name, data, "application/json"); err != nil {
		return err
	}
	s.logger.Debug("Stored object in Supabase", "bucket", s.bucket, "name", name, "bytes", len(data))
	return nil
}

func (s *SupabaseStorage) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.client.Download(s.bucket, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return data, nil
}
