package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	applog "github.com/raj-kalepu/SpendWise/internal/log"
	"github.com/raj-kalepu/SpendWise/internal/records/memory"
	"github.com/raj-kalepu/SpendWise/internal/records/rest"
	"github.com/raj-kalepu/SpendWise/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case RESTBackend:
		return f.createRESTBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	if config.SQLiteDBPath == "" {
		return nil, fmt.Errorf("sqlite database path is required for sqlite backend")
	}

	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", applog.FieldBackend, SQLiteBackend.String(), "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Repository: repo,
		Cleanup:    repo.Close,
	}, nil
}

func (f *DefaultFactory) createRESTBackend(config Config) (*BackendResult, error) {
	if config.RESTBaseURL == "" {
		return nil, fmt.Errorf("base URL is required for rest backend")
	}

	client := rest.NewClient(config.RESTBaseURL, time.Duration(config.RESTTimeout)*time.Second)

	f.logger.Info("Initialized REST backend", applog.FieldBackend, RESTBackend.String(), "base_url", config.RESTBaseURL)

	return &BackendResult{
		Repository: client,
		Cleanup:    nil,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	repo := memory.New()
	if config.SeedDemoData {
		repo = memory.NewSeeded()
	}

	f.logger.Info("Initialized memory backend", applog.FieldBackend, MemoryBackend.String(), "seeded", config.SeedDemoData)

	return &BackendResult{
		Repository: repo,
		Cleanup:    nil,
	}, nil
}
