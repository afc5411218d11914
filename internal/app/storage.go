package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fadedpez/aceshigh/internal/config"
	"github.com/fadedpez/aceshigh/internal/logging"
	simrepo "github.com/fadedpez/aceshigh/pkg/repositories/simulation"
	"github.com/fadedpez/aceshigh/pkg/storage"
	"github.com/fadedpez/aceshigh/pkg/storage/file"
)

// Storage is the opened run repository. Indexer is set when runs are also indexed in
// Elasticsearch.
type Storage struct {
	Runs    simrepo.Repository
	Indexer *simrepo.ElasticsearchRepository
}

// Close releases the repository
func (s *Storage) Close() error {
	return s.Runs.Close()
}

// OpenStorage builds the repository selected by cfg.Type
func OpenStorage(cfg config.StorageConfig, logger *logging.Logger) (*Storage, error) {
	if logger == nil {
		logger = logging.Default
	}

	switch cfg.Type {
	case config.StorageMemory, "":
		logger.Info("Using in-memory repository for simulation runs (data will be lost on restart)")
		return &Storage{Runs: simrepo.NewMemoryRepository()}, nil

	case config.StorageSQLite:
		logger.Info("Initializing SQLite repository at %s", cfg.SQLitePath)
		repo, err := simrepo.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return &Storage{Runs: repo}, nil

	case config.StorageRedis:
		logger.Info("Connecting to Redis at %s", cfg.Redis.Addr)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo, err := simrepo.NewRedisRepository(&simrepo.RedisConfig{RedisClient: client})
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to initialize Redis repository: %w", err)
		}
		return &Storage{Runs: repo}, nil

	case config.StorageElasticsearch:
		// Runs are kept in SQLite and indexed in Elasticsearch
		base, err := simrepo.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite base repository: %w", err)
		}
		logger.Info("Connecting to Elasticsearch at %s", cfg.Elasticsearch.URL)
		repo, err := simrepo.NewElasticsearchRepository(base, &simrepo.ElasticsearchConfig{
			URL:         cfg.Elasticsearch.URL,
			Username:    cfg.Elasticsearch.Username,
			Password:    cfg.Elasticsearch.Password,
			IndexPrefix: cfg.Elasticsearch.IndexPrefix,
			Logger:      logger,
		})
		if err != nil {
			base.Close()
			return nil, fmt.Errorf("failed to initialize Elasticsearch repository: %w", err)
		}
		return &Storage{Runs: repo, Indexer: repo}, nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// OpenHandFile opens the crib hand collection file
func OpenHandFile(path string, truncate bool) (*file.Storage, error) {
	opts := storage.NewOptions()
	if path != "" {
		opts.Path = path
	}
	opts.Truncate = truncate
	return file.New(opts)
}
