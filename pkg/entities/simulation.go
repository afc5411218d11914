package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/aceshigh/internal/types"
)

// Mode names a sampling experiment
type Mode string

const (
	ModeCribbage    Mode = "cribbage"
	ModeCribCollect Mode = "crib_collect"
	ModePoker       Mode = "poker"
	ModePoker7      Mode = "poker_7"
)

// Modes lists every known mode
var Modes = []Mode{ModeCribbage, ModeCribCollect, ModePoker, ModePoker7}

// String returns the mode name
func (m Mode) String() string {
	return string(m)
}

// IsPoker reports whether the histogram of this mode is keyed by poker category
func (m Mode) IsPoker() bool {
	return m == ModePoker || m == ModePoker7
}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	name := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes {
		if m == name {
			return m, nil
		}
	}
	return "", types.NewGameError(types.ErrInvalidMode, fmt.Sprintf("unknown mode: %s", s))
}

// SimulationRun is the merged outcome of one sampling run
type SimulationRun struct {
	ID          string        `json:"id"`
	Mode        Mode          `json:"mode"`
	Iterations  int           `json:"iterations"`
	Workers     int           `json:"workers"`
	Seed        int64         `json:"seed"`
	Histogram   Histogram     `json:"histogram"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Elapsed     time.Duration `json:"elapsed"`
}

// CribHandRecord is one collected cribbage deal
type CribHandRecord struct {
	RunID       string `json:"run_id"`
	FullHand    Hand   `json:"full_hand"`
	KeptHand    Hand   `json:"kept_hand"`
	Cut         Card   `json:"cut"`
	Discarded   Hand   `json:"discarded"`
	PreCutScore int    `json:"pre_cut_score"`
	Score       int    `json:"score"`
}
