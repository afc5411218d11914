package simulation

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/aceshigh/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of run ID to run
	runs map[string]*entities.SimulationRun
	// Map of run ID to collected hands
	hands map[string][]*entities.CribHandRecord
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		runs:  make(map[string]*entities.SimulationRun),
		hands: make(map[string][]*entities.CribHandRecord),
	}
}

// SaveRun stores a run, replacing any run with the same ID
func (r *MemoryRepository) SaveRun(ctx context.Context, run *entities.SimulationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[run.ID] = copyRun(run)
	return nil
}

// GetRun retrieves a run by ID
func (r *MemoryRepository) GetRun(ctx context.Context, id string) (*entities.SimulationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.runs[id]
	if !exists {
		return nil, runNotFound(id)
	}
	return copyRun(run), nil
}

// ListRuns retrieves the most recent runs, optionally for one mode
func (r *MemoryRepository) ListRuns(ctx context.Context, mode entities.Mode, limit int) ([]*entities.SimulationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*entities.SimulationRun, 0, len(r.runs))
	for _, run := range r.runs {
		if mode != "" && run.Mode != mode {
			continue
		}
		runs = append(runs, copyRun(run))
	}

	sortNewestFirst(runs)
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// SaveCribHands appends collected hands to a run
func (r *MemoryRepository) SaveCribHands(ctx context.Context, runID string, hands []*entities.CribHandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range hands {
		record := *h
		record.RunID = runID
		r.hands[runID] = append(r.hands[runID], &record)
	}
	return nil
}

// GetCribHands retrieves the first limit hands collected by a run
func (r *MemoryRepository) GetCribHands(ctx context.Context, runID string, limit int) ([]*entities.CribHandRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hands := r.hands[runID]
	if limit > 0 && len(hands) > limit {
		hands = hands[:limit]
	}
	return append([]*entities.CribHandRecord{}, hands...), nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}

func copyRun(run *entities.SimulationRun) *entities.SimulationRun {
	out := *run
	out.Histogram = make(entities.Histogram, len(run.Histogram))
	out.Histogram.Merge(run.Histogram)
	return &out
}

func sortNewestFirst(runs []*entities.SimulationRun) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CompletedAt.Equal(runs[j].CompletedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CompletedAt.After(runs[j].CompletedAt)
	})
}
