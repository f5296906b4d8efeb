package config

import (
	"context"
	"fmt"

	"resume-parser/internal/domain"
	"resume-parser/internal/infra/amqp"
	"resume-parser/internal/infra/s3"
	"resume-parser/internal/infra/supabase"
	"resume-parser/internal/repository"
	"resume-parser/internal/service"
	"resume-parser/pkg/logger"
)

// Durable storage backends selectable with STORAGE_BACKEND.
const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
	StorageS3       = "s3"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	TextExtractor  domain.TextExtractor
	DurableStorage domain.DurableStorage
	EventPublisher domain.EventPublisher
	SessionStore   domain.SessionStore
	ResumeService  *service.ResumeService
	SessionReaper  *service.SessionReaper

	closers []func() error
}

// NewContainer creates a new dependency injection container from the environment
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := NewConfig()
	return NewContainerWithConfig(ctx, cfg, logger.NewLogger(cfg.GetLogLevel()))
}

// NewContainerWithConfig wires every component from cfg
func NewContainerWithConfig(ctx context.Context, cfg domain.Config, appLogger domain.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: appLogger}

	extractor, err := service.NewTextExtractor(cfg.GetPDFEngine(), appLogger)
	if err != nil {
		return nil, err
	}
	c.TextExtractor = extractor

	durable, err := newDurableStorage(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}
	c.DurableStorage = durable

	c.EventPublisher = amqp.NopPublisher{}
	if url := cfg.GetAMQPURL(); url != "" {
		publisher, err := amqp.NewPublisher(url, cfg.GetAMQPExchange(), appLogger)
		if err != nil {
			// events are informational, the service runs without them
			appLogger.Warn("Session events disabled", "error", err)
		} else {
			c.EventPublisher = publisher
			c.closers = append(c.closers, publisher.Close)
		}
	}

	c.SessionStore = repository.NewFileSessionStore(cfg.GetOutputPath(), durable, c.EventPublisher, appLogger)
	c.ResumeService = service.NewResumeService(
		cfg.GetUploadPath(),
		cfg.GetAllowedExtensions(),
		extractor,
		service.NewEntityExtractor(),
		c.SessionStore,
		service.NewSessionIDGenerator(),
		appLogger,
	)
	c.SessionReaper = service.NewSessionReaper(c.SessionStore, cfg.GetSessionTTL(), cfg.GetReapInterval(), appLogger)

	appLogger.Info("Container initialized",
		"pdf_engine", cfg.GetPDFEngine(),
		"storage_backend", cfg.GetStorageBackend(),
		"events", cfg.GetAMQPURL() != "",
	)
	return c, nil
}

func newDurableStorage(ctx context.Context, cfg domain.Config, appLogger domain.Logger) (domain.DurableStorage, error) {
	switch cfg.GetStorageBackend() {
	case "", StorageLocal:
		return repository.NewLocalStorage(cfg.GetOutputPath()), nil
	case StorageSupabase:
		client, err := supabase.NewClient(cfg.GetSupabaseURL(), cfg.GetSupabaseKey(), appLogger)
		if err != nil {
			return nil, err
		}
		return repository.NewSupabaseStorage(client, cfg.GetSupabaseBucket(), appLogger), nil
	case StorageS3:
		s3cfg := cfg.GetS3Config()
		client, err := s3.NewClient(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewS3Storage(client, s3cfg.Bucket, appLogger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.GetStorageBackend())
	}
}

// Close releases broker connections
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
