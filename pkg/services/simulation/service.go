package simulation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fadedpez/aceshigh/internal/logging"
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/entities"
	simrepo "github.com/fadedpez/aceshigh/pkg/repositories/simulation"
	"github.com/fadedpez/aceshigh/pkg/storage"
)

const (
	DefaultIterations = 10000 // Iterations used when a run does not ask for a count
	handBatchSize     = 1000  // Collected hands buffered per worker before writing
	cancelCheckEvery  = 256   // Iterations between context checks
)

// RunInput describes a sampling run
type RunInput struct {
	Mode       entities.Mode
	Iterations int   // Zero uses DefaultIterations
	Workers    int   // Zero uses one worker per CPU
	Seed       int64 // Zero seeds from the clock. Worker i uses Seed+i.
}

// Config holds the collaborators of a Service. Only Repository is required.
type Config struct {
	Repository simrepo.Repository
	Writer     storage.HandWriter
	Registry   *Registry
	Logger     *logging.Logger
}

// Service runs sampling experiments and stores their results
type Service struct {
	repository simrepo.Repository
	writer     storage.HandWriter
	registry   *Registry
	logger     *logging.Logger

	done  atomic.Int64
	total atomic.Int64

	now   func() time.Time
	newID func() string
}

// NewService creates a new simulation service
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil || cfg.Repository == nil {
		return nil, types.NewGameError(types.ErrInvalidArgument, "simulation service requires a repository")
	}

	s := &Service{
		repository: cfg.Repository,
		writer:     cfg.Writer,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}
	if s.logger == nil {
		s.logger = logging.Default
	}
	return s, nil
}

// Modes returns the names of every mode the service can run
func (s *Service) Modes() []entities.Mode {
	return s.registry.Modes()
}

// Progress returns how many iterations of the current run have completed and
// how many were requested
func (s *Service) Progress() (done, total int64) {
	return s.done.Load(), s.total.Load()
}

// Run executes a sampling run across a pool of workers, merges their
// histograms and saves the run
func (s *Service) Run(ctx context.Context, input RunInput) (*entities.SimulationRun, error) {
	sampler, err := s.registry.Get(input.Mode)
	if err != nil {
		return nil, err
	}

	iterations := input.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < 0 {
		return nil, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("iterations must be positive, got %d", iterations))
	}

	workers := input.Workers
	if workers < 0 {
		return nil, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("workers must be positive, got %d", workers))
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, iterations)

	seed := input.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}

	run := &entities.SimulationRun{
		ID:         s.newID(),
		Mode:       input.Mode,
		Iterations: iterations,
		Workers:    workers,
		Seed:       seed,
		StartedAt:  s.now(),
	}
	s.done.Store(0)
	s.total.Store(int64(iterations))

	s.logger.Info("Starting %s run %s: %d iterations on %d workers (seed %d)",
		run.Mode, run.ID, iterations, workers, seed)

	histograms, err := s.runWorkers(ctx, run, sampler)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("Run %s cancelled after %d iterations", run.ID, s.done.Load())
			return nil, fmt.Errorf("run %s cancelled: %w", run.ID, err)
		}
		return nil, err
	}

	run.Histogram = make(entities.Histogram)
	for _, h := range histograms {
		run.Histogram.Merge(h)
	}
	run.CompletedAt = s.now()
	run.Elapsed = run.CompletedAt.Sub(run.StartedAt)

	if err := s.repository.SaveRun(ctx, run); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "Failed to save simulation run", err)
	}

	s.logger.Info("Completed %s run %s in %s", run.Mode, run.ID, run.Elapsed)
	return run, nil
}

func (s *Service) runWorkers(parent context.Context, run *entities.SimulationRun, sampler Sampler) ([]entities.Histogram, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	batches := make(chan []*entities.CribHandRecord, run.Workers)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for batch := range batches {
			if err := s.saveHands(ctx, run.ID, batch); err != nil {
				fail(err)
			}
		}
	}()

	histograms := make([]entities.Histogram, run.Workers)
	var wg sync.WaitGroup
	for w := 0; w < run.Workers; w++ {
		share := run.Iterations / run.Workers
		if w < run.Iterations%run.Workers {
			share++
		}

		wg.Add(1)
		go func(w, share int) {
			defer wg.Done()

			deck := entities.NewSeededDeck(run.Seed + int64(w))
			sampler.Prepare(deck)
			hist := make(entities.Histogram)
			var batch []*entities.CribHandRecord

			send := func() bool {
				if len(batch) == 0 {
					return true
				}
				select {
				case batches <- batch:
					batch = nil
					return true
				case <-ctx.Done():
					fail(ctx.Err())
					return false
				}
			}

			for i := 0; i < share; i++ {
				if i%cancelCheckEvery == 0 && ctx.Err() != nil {
					fail(ctx.Err())
					return
				}

				outcome, err := sampler.Sample(deck)
				if err != nil {
					fail(err)
					return
				}
				hist.Add(outcome.Key)
				if outcome.CribHand != nil {
					outcome.CribHand.RunID = run.ID
					batch = append(batch, outcome.CribHand)
					if len(batch) >= handBatchSize && !send() {
						return
					}
				}
				s.done.Add(1)
			}

			if send() {
				histograms[w] = hist
			}
		}(w, share)
	}

	wg.Wait()
	close(batches)
	<-collected

	errMu.Lock()
	defer errMu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	return histograms, nil
}

func (s *Service) saveHands(ctx context.Context, runID string, batch []*entities.CribHandRecord) error {
	if s.writer != nil {
		if err := s.writer.WriteHands(ctx, batch); err != nil {
			return types.WrapError(types.ErrInternalError, "Failed to write collected hands", err)
		}
	}
	if err := s.repository.SaveCribHands(ctx, runID, batch); err != nil {
		return types.WrapError(types.ErrDatabaseError, "Failed to save collected hands", err)
	}
	return nil
}
