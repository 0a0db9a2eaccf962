package backend

import (
	"context"
	"fmt"

	"fintrack/internal/cache"
	"fintrack/internal/kv"
	"fintrack/internal/kv/memory"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		result = f.withCache(result, config)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store := memory.New()
	if config.DataDirectory != "" {
		var err error
		store, err = memory.NewFromDir(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory store: %w", err)
		}
	}

	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)

	return &BackendResult{
		Store:   store,
		Cleanup: func() error { return nil },
	}, nil
}

// withCache wraps the store in a read cache whose expired entries are
// swept in the background until cleanup.
func (f *DefaultFactory) withCache(result *BackendResult, config Config) *BackendResult {
	lru := cache.NewLRUCache[string](config.CacheSize, config.CacheTTL)
	manager := cache.NewManager(f.logger)
	manager.Register(lru)
	manager.StartCleanup(config.CacheTTL)

	f.logger.Info("Read cache enabled", "size", config.CacheSize, "ttl", config.CacheTTL)

	next := result.Cleanup
	return &BackendResult{
		Store: kv.NewCachedStore(result.Store, lru),
		Cleanup: func() error {
			manager.Stop()
			stats := lru.Stats()
			f.logger.Info("Read cache closed", "hits", stats.Hits, "misses", stats.Misses, "size", stats.Size)
			return next()
		},
	}
}
