package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/aceshigh/internal/logging"
)

// DefaultSyncLimit is how many of the newest runs each sync pass re-indexes
const DefaultSyncLimit = 100

// RunIndexer re-indexes stored runs into a search index
type RunIndexer interface {
	SyncRuns(ctx context.Context, limit int) (int, error)
}

// ElasticsearchMaintenanceScheduler keeps the Elasticsearch runs index in step with the
// base repository
type ElasticsearchMaintenanceScheduler struct {
	scheduler *Scheduler
	indexer   RunIndexer
	interval  time.Duration
	limit     int
	logger    *logging.Logger
}

// NewElasticsearchMaintenanceScheduler creates a new scheduler for Elasticsearch maintenance tasks
func NewElasticsearchMaintenanceScheduler(indexer RunIndexer, interval time.Duration, logger *logging.Logger) *ElasticsearchMaintenanceScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = logging.Default
	}
	return &ElasticsearchMaintenanceScheduler{
		scheduler: NewScheduler(logger),
		indexer:   indexer,
		interval:  interval,
		limit:     DefaultSyncLimit,
		logger:    logger,
	}
}

// Start initializes and starts the maintenance scheduler
func (s *ElasticsearchMaintenanceScheduler) Start(ctx context.Context) {
	s.scheduler.AddTask("run_index_sync", s.interval, s.syncRuns)
	s.scheduler.Start(ctx)
	s.logger.Info("Elasticsearch maintenance scheduler started")
}

// Stop stops the maintenance scheduler
func (s *ElasticsearchMaintenanceScheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Elasticsearch maintenance scheduler stopped")
}

func (s *ElasticsearchMaintenanceScheduler) syncRuns(ctx context.Context) error {
	count, err := s.indexer.SyncRuns(ctx, s.limit)
	if err != nil {
		return err
	}
	s.logger.Debug("Re-indexed %d runs", count)
	return nil
}
