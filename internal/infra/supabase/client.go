package supabase

import (
	"bytes"
	"fmt"
	"strings"

	"resume-parser/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// Client wraps the Supabase client for object storage access.
type Client struct {
	client *supabase.Client
	logger domain.Logger
}

// NewClient establishes a connection to Supabase
func NewClient(url, key string, logger domain.Logger) (*Client, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	logger.Info("Supabase client initialized successfully", "url", url)
	return &Client{client: client, logger: logger}, nil
}

// Upload writes data to bucket/path, replacing any existing object.
func (c *Client) Upload(bucket, path string, data []byte, contentType string) error {
	upsert := true
	_, err := c.client.Storage.UploadFile(bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("supabase upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

// Download reads bucket/path. Missing objects yield domain.ErrFileNotFound.
func (c *Client) Download(bucket, path string) ([]byte, error) {
	data, err := c.client.Storage.DownloadFile(bucket, path)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("supabase download %s/%s: %w", bucket, path, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "not_found") || strings.Contains(msg, "404")
}
