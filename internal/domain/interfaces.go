package domain

import (
	"context"
	"io"
	"time"
)

// TextExtractor turns a staged document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// EntityExtractor builds an ExtractionResult from resume text.
type EntityExtractor interface {
	Extract(text string) *ExtractionResult
}

// ResumeService covers the upload, confirm and download use cases.
type ResumeService interface {
	Process(ctx context.Context, filename string, file io.Reader) (*ExtractionResult, error)
	SaveEdited(ctx context.Context, payload []byte) (string, error)
	Download(ctx context.Context, filename string) ([]byte, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// FieldLogger is a Logger that can derive children carrying fixed fields.
type FieldLogger interface {
	Logger
	With(fields ...interface{}) Logger
}

// WithFields returns a child of l carrying fields, or l itself when it cannot.
func WithFields(l Logger, fields ...interface{}) Logger {
	if fl, ok := l.(FieldLogger); ok {
		return fl.With(fields...)
	}
	return l
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetUploadPath() string
	GetOutputPath() string
	GetMaxFileSize() int64
	GetAllowedExtensions() []string
	GetLogLevel() string
	GetPDFEngine() string
	GetStorageBackend() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string
	GetS3Config() S3Config
	GetAMQPURL() string
	GetAMQPExchange() string
	GetSessionTTL() time.Duration
	GetReapInterval() time.Duration
	GetCORSAllowedOrigins() []string
}

// S3Config holds connection settings for an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}
