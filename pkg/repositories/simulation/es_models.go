package simulation

import (
	"time"

	"github.com/fadedpez/aceshigh/pkg/entities"
)

// ESRun represents a simulation run document in Elasticsearch
type ESRun struct {
	RunID       string             `json:"run_id"`
	Mode        string             `json:"mode"`
	Iterations  int                `json:"iterations"`
	Workers     int                `json:"workers"`
	Seed        int64              `json:"seed"`
	Histogram   entities.Histogram `json:"histogram"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt time.Time          `json:"completed_at"`
	ElapsedNS   int64              `json:"elapsed_ns"`
}

// ESCribHand represents a collected crib hand document in Elasticsearch
type ESCribHand struct {
	RunID       string   `json:"run_id"`
	Sequence    int      `json:"sequence"`
	FullHand    []string `json:"full_hand"`
	KeptHand    []string `json:"kept_hand"`
	Cut         string   `json:"cut"`
	Discarded   []string `json:"discarded"`
	PreCutScore int      `json:"pre_cut_score"`
	Score       int      `json:"score"`
}

func newESRun(run *entities.SimulationRun) *ESRun {
	return &ESRun{
		RunID:       run.ID,
		Mode:        string(run.Mode),
		Iterations:  run.Iterations,
		Workers:     run.Workers,
		Seed:        run.Seed,
		Histogram:   run.Histogram,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		ElapsedNS:   int64(run.Elapsed),
	}
}

func (d *ESRun) toRun() *entities.SimulationRun {
	histogram := d.Histogram
	if histogram == nil {
		histogram = make(entities.Histogram)
	}
	return &entities.SimulationRun{
		ID:          d.RunID,
		Mode:        entities.Mode(d.Mode),
		Iterations:  d.Iterations,
		Workers:     d.Workers,
		Seed:        d.Seed,
		Histogram:   histogram,
		StartedAt:   d.StartedAt,
		CompletedAt: d.CompletedAt,
		Elapsed:     time.Duration(d.ElapsedNS),
	}
}

func newESCribHand(runID string, sequence int, h *entities.CribHandRecord) *ESCribHand {
	return &ESCribHand{
		RunID:       runID,
		Sequence:    sequence,
		FullHand:    h.FullHand.Strings(),
		KeptHand:    h.KeptHand.Strings(),
		Cut:         h.Cut.String(),
		Discarded:   h.Discarded.Strings(),
		PreCutScore: h.PreCutScore,
		Score:       h.Score,
	}
}
