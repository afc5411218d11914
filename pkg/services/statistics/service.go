package statistics

import (
	"context"

	"github.com/fadedpez/aceshigh/pkg/entities"
	simrepo "github.com/fadedpez/aceshigh/pkg/repositories/simulation"
)

// DefaultReportLimit caps ListReports when no limit is given
const DefaultReportLimit = 10

// Service provides methods for retrieving and summarising stored runs
type Service struct {
	repository simrepo.Repository
}

// NewService creates a new statistics service
func NewService(repository simrepo.Repository) *Service {
	return &Service{
		repository: repository,
	}
}

// GetRunReport builds the report for one stored run
func (s *Service) GetRunReport(ctx context.Context, id string) (*Report, error) {
	run, err := s.repository.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildReport(run), nil
}

// ListReports builds reports for the most recent runs, newest first
func (s *Service) ListReports(ctx context.Context, mode entities.Mode, limit int) ([]*Report, error) {
	if limit < 1 {
		limit = DefaultReportLimit
	}

	runs, err := s.repository.ListRuns(ctx, mode, limit)
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(runs))
	for _, run := range runs {
		reports = append(reports, BuildReport(run))
	}
	return reports, nil
}

// CombinedReport pools the most recent runs of one mode into a single report
func (s *Service) CombinedReport(ctx context.Context, mode entities.Mode, limit int) (*Report, error) {
	if limit < 1 {
		limit = DefaultReportLimit
	}

	runs, err := s.repository.ListRuns(ctx, mode, limit)
	if err != nil {
		return nil, err
	}
	return Combine(mode, runs), nil
}

// Combine merges several runs of the same mode into one report, e.g. to pool
// repeated runs into a larger sample
func Combine(mode entities.Mode, runs []*entities.SimulationRun) *Report {
	merged := &entities.SimulationRun{
		ID:        "combined",
		Mode:      mode,
		Histogram: make(entities.Histogram),
	}
	for _, run := range runs {
		if run.Mode != mode {
			continue
		}
		merged.Iterations += run.Iterations
		merged.Workers = max(merged.Workers, run.Workers)
		merged.Elapsed += run.Elapsed
		if run.CompletedAt.After(merged.CompletedAt) {
			merged.CompletedAt = run.CompletedAt
		}
		merged.Histogram.Merge(run.Histogram)
	}
	return BuildReport(merged)
}
