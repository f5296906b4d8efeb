package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-parser/internal/domain"
)

const (
	defaultMaxFileSize  int64 = 5 * 1024 * 1024
	defaultReapInterval       = 10 * time.Minute
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort         string
	UploadPath         string
	OutputPath         string
	MaxFileSize        int64
	AllowedExtensions  []string
	LogLevel           string
	PDFEngine          string
	StorageBackend     string
	SupabaseURL        string
	SupabaseKey        string
	SupabaseBucket     string
	S3                 domain.S3Config
	AMQPURL            string
	AMQPExchange       string
	SessionTTL         time.Duration
	ReapInterval       time.Duration
	CORSAllowedOrigins []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:        getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		UploadPath:        getEnvOrDefault("UPLOAD_PATH", "uploads"),
		OutputPath:        getEnvOrDefault("OUTPUT_PATH", "output"),
		MaxFileSize:       getEnvInt64OrDefault("MAX_FILE_SIZE", defaultMaxFileSize),
		AllowedExtensions: getEnvListOrDefault("ALLOWED_EXTENSIONS", []string{"pdf"}),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		PDFEngine:         strings.ToLower(getEnvOrDefault("PDF_ENGINE", "pdf")),
		StorageBackend:    strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", "local")),
		SupabaseURL:       getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:       getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseBucket:    getEnvOrDefault("SUPABASE_BUCKET", "resumes"),
		S3: domain.S3Config{
			Bucket:    getEnvOrDefault("S3_BUCKET", ""),
			Region:    getEnvOrDefault("S3_REGION", "auto"),
			Endpoint:  getEnvOrDefault("S3_ENDPOINT", ""),
			AccessKey: getEnvOrDefault("S3_ACCESS_KEY", ""),
			SecretKey: getEnvOrDefault("S3_SECRET_KEY", ""),
		},
		AMQPURL:            getEnvOrDefault("AMQP_URL", ""),
		AMQPExchange:       getEnvOrDefault("AMQP_EXCHANGE", "resume_sessions"),
		SessionTTL:         getEnvDurationOrDefault("SESSION_TTL", 0),
		ReapInterval:       getEnvDurationOrDefault("REAP_INTERVAL", defaultReapInterval),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetUploadPath returns the directory uploads are staged in
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetOutputPath returns the directory session records are written to
func (c *AppConfig) GetOutputPath() string {
	return c.OutputPath
}

// GetMaxFileSize returns the maximum allowed request size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

func (c *AppConfig) GetAllowedExtensions() []string {
	return append([]string(nil), c.AllowedExtensions...)
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

func (c *AppConfig) GetPDFEngine() string {
	return c.PDFEngine
}

func (c *AppConfig) GetStorageBackend() string {
	return c.StorageBackend
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

func (c *AppConfig) GetS3Config() domain.S3Config {
	return c.S3
}

func (c *AppConfig) GetAMQPURL() string {
	return c.AMQPURL
}

func (c *AppConfig) GetAMQPExchange() string {
	return c.AMQPExchange
}

// GetSessionTTL returns how long unconfirmed sessions are kept; 0 keeps them forever
func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.SessionTTL
}

func (c *AppConfig) GetReapInterval() time.Duration {
	return c.ReapInterval
}

func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return append([]string(nil), c.CORSAllowedOrigins...)
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("30m") or plain seconds ("1800").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
