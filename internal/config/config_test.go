package config

import (
	"context"
	"io"
	"testing"
	"time"

	"resume-parser/internal/infra/amqp"
	"resume-parser/internal/repository"
	"resume-parser/internal/service"
	"resume-parser/pkg/logger"
)

var configKeys = []string{
	"PORT", "SERVER_PORT", "UPLOAD_PATH", "OUTPUT_PATH", "MAX_FILE_SIZE",
	"ALLOWED_EXTENSIONS", "LOG_LEVEL", "PDF_ENGINE", "STORAGE_BACKEND",
	"SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_BUCKET",
	"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"AMQP_URL", "AMQP_EXCHANGE", "SESSION_TTL", "REAP_INTERVAL", "CORS_ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetUploadPath() != "uploads" {
		t.Fatalf("expected default upload path uploads, got %s", cfg.GetUploadPath())
	}
	if cfg.GetOutputPath() != "output" {
		t.Fatalf("expected default output path output, got %s", cfg.GetOutputPath())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if exts := cfg.GetAllowedExtensions(); len(exts) != 1 || exts[0] != "pdf" {
		t.Fatalf("expected default extensions [pdf], got %v", exts)
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetPDFEngine() != "pdf" {
		t.Fatalf("expected default pdf engine, got %s", cfg.GetPDFEngine())
	}
	if cfg.GetStorageBackend() != "local" {
		t.Fatalf("expected default storage backend local, got %s", cfg.GetStorageBackend())
	}
	if cfg.GetSupabaseBucket() != "resumes" {
		t.Fatalf("expected default supabase bucket resumes, got %s", cfg.GetSupabaseBucket())
	}
	if cfg.GetAMQPURL() != "" {
		t.Fatalf("expected no default amqp url, got %s", cfg.GetAMQPURL())
	}
	if cfg.GetAMQPExchange() != "resume_sessions" {
		t.Fatalf("expected default exchange resume_sessions, got %s", cfg.GetAMQPExchange())
	}
	if cfg.GetSessionTTL() != 0 {
		t.Fatalf("expected reaping disabled by default, got ttl %v", cfg.GetSessionTTL())
	}
	if cfg.GetReapInterval() != defaultReapInterval {
		t.Fatalf("expected default reap interval %v, got %v", defaultReapInterval, cfg.GetReapInterval())
	}
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) != 1 || origins[0] != "*" {
		t.Fatalf("expected default origins [*], got %v", origins)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("MAX_FILE_SIZE", "12345")
	t.Setenv("ALLOWED_EXTENSIONS", "pdf, PDFA ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PDF_ENGINE", "FITZ")
	t.Setenv("STORAGE_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "cv")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("REAP_INTERVAL", "90")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != 12345 {
		t.Fatalf("expected max file size 12345, got %d", cfg.GetMaxFileSize())
	}
	if exts := cfg.GetAllowedExtensions(); len(exts) != 2 || exts[1] != "PDFA" {
		t.Fatalf("unexpected extensions %v", exts)
	}
	if cfg.GetPDFEngine() != "fitz" {
		t.Fatalf("expected engine fitz, got %s", cfg.GetPDFEngine())
	}
	if cfg.GetStorageBackend() != "s3" {
		t.Fatalf("expected backend s3, got %s", cfg.GetStorageBackend())
	}
	if s3 := cfg.GetS3Config(); s3.Bucket != "cv" || s3.Endpoint != "http://localhost:9000" || s3.Region != "auto" {
		t.Fatalf("unexpected s3 config %+v", s3)
	}
	if cfg.GetSessionTTL() != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", cfg.GetSessionTTL())
	}
	if cfg.GetReapInterval() != 90*time.Second {
		t.Fatalf("expected interval 90s, got %v", cfg.GetReapInterval())
	}
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) != 2 {
		t.Fatalf("expected two origins, got %v", origins)
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("SESSION_TTL", "-5m")
	t.Setenv("ALLOWED_EXTENSIONS", " , ")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetSessionTTL() != 0 {
		t.Fatalf("expected negative ttl to fall back to 0, got %v", cfg.GetSessionTTL())
	}
	if exts := cfg.GetAllowedExtensions(); len(exts) != 1 || exts[0] != "pdf" {
		t.Fatalf("expected default extensions, got %v", exts)
	}
}

func TestAppConfig_ListsAreCopies(t *testing.T) {
	cfg := &AppConfig{AllowedExtensions: []string{"pdf"}}
	exts := cfg.GetAllowedExtensions()
	exts[0] = "exe"
	if cfg.GetAllowedExtensions()[0] != "pdf" {
		t.Fatalf("config must not be mutable through getters")
	}
}

func TestNewContainerWithConfig_LocalDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := &AppConfig{
		UploadPath:        dir + "/uploads",
		OutputPath:        dir + "/output",
		AllowedExtensions: []string{"pdf"},
		PDFEngine:         "pdf",
		StorageBackend:    "local",
		ReapInterval:      time.Minute,
	}

	c, err := NewContainerWithConfig(context.Background(), cfg, logger.NewLoggerWithWriter("error", io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if _, ok := c.TextExtractor.(*service.PlainPDFExtractor); !ok {
		t.Fatalf("expected plain pdf extractor, got %T", c.TextExtractor)
	}
	if _, ok := c.DurableStorage.(*repository.LocalStorage); !ok {
		t.Fatalf("expected local storage, got %T", c.DurableStorage)
	}
	if _, ok := c.EventPublisher.(amqp.NopPublisher); !ok {
		t.Fatalf("expected no-op publisher, got %T", c.EventPublisher)
	}
	if c.SessionReaper.Enabled() {
		t.Fatalf("expected reaper disabled without ttl")
	}
}

func TestNewContainerWithConfig_RejectsUnknownComponents(t *testing.T) {
	quiet := logger.NewLoggerWithWriter("error", io.Discard)

	if _, err := NewContainerWithConfig(context.Background(), &AppConfig{PDFEngine: "ocr"}, quiet); err == nil {
		t.Fatalf("expected error for unknown pdf engine")
	}
	if _, err := NewContainerWithConfig(context.Background(), &AppConfig{StorageBackend: "ftp"}, quiet); err == nil {
		t.Fatalf("expected error for unknown storage backend")
	}
	if _, err := NewContainerWithConfig(context.Background(), &AppConfig{StorageBackend: "supabase"}, quiet); err == nil {
		t.Fatalf("expected error for supabase without credentials")
	}
}
