package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_simulation

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("simulation run not found")

// Repository defines storage operations for simulation runs and collected crib hands
type Repository interface {
	// Runs
	SaveRun(ctx context.Context, run *entities.SimulationRun) error
	GetRun(ctx context.Context, id string) (*entities.SimulationRun, error)
	// ListRuns returns the newest runs first. An empty mode lists every mode and a
	// limit of zero or less returns everything.
	ListRuns(ctx context.Context, mode entities.Mode, limit int) ([]*entities.SimulationRun, error)

	// Collected crib hands, returned in insertion order
	SaveCribHands(ctx context.Context, runID string, hands []*entities.CribHandRecord) error
	GetCribHands(ctx context.Context, runID string, limit int) ([]*entities.CribHandRecord, error)

	// Close closes any resources used by the repository
	Close() error
}

func runNotFound(id string) error {
	return types.WrapError(types.ErrNotFound, fmt.Sprintf("Run %s not found", id), ErrRunNotFound)
}
