package statistics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fadedpez/aceshigh/pkg/entities"
	"github.com/fadedpez/aceshigh/pkg/services/poker"
)

// Published probabilities of each category for five card draws
var PokerProbabilities = map[poker.Category]string{
	poker.HighCard:      "50.1177%",
	poker.Pair:          "42.2569%",
	poker.TwoPair:       "4.7539%",
	poker.ThreeOfAKind:  "2.1128%",
	poker.Straight:      "0.3925%",
	poker.Flush:         "0.1965%",
	poker.FullHouse:     "0.1441%",
	poker.FourOfAKind:   "0.02401%",
	poker.StraightFlush: "0.00139%",
	poker.RoyalFlush:    "0.000154%",
}

// Published probabilities of each category for the best five of seven cards
var Poker7Probabilities = map[poker.Category]string{
	poker.HighCard:      "17.4%",
	poker.Pair:          "43.8%",
	poker.TwoPair:       "23.5%",
	poker.ThreeOfAKind:  "4.83%",
	poker.Straight:      "4.62%",
	poker.Flush:         "3.03%",
	poker.FullHouse:     "2.60%",
	poker.FourOfAKind:   "0.168%",
	poker.StraightFlush: "0.0311%",
	poker.RoyalFlush:    "0.0032%",
}

// Row is one line of a report
type Row struct {
	Key      int     `json:"key"`
	Label    string  `json:"label"`
	Count    int64   `json:"count"`
	Percent  float64 `json:"percent"`
	Expected string  `json:"expected,omitempty"`
}

// Report summarises the histogram of a run
type Report struct {
	RunID       string        `json:"run_id"`
	Mode        entities.Mode `json:"mode"`
	Iterations  int           `json:"iterations"`
	Workers     int           `json:"workers"`
	Seed        int64         `json:"seed"`
	CompletedAt time.Time     `json:"completed_at"`
	Elapsed     time.Duration `json:"elapsed"`
	Mean        float64       `json:"mean,omitempty"` // Average score, cribbage modes only
	Rows        []Row         `json:"rows"`
}

// BuildReport turns a run into report rows. Poker runs list all ten categories
// with their published probabilities. Cribbage runs list only the scores that
// occurred.
func BuildReport(run *entities.SimulationRun) *Report {
	report := &Report{
		RunID:       run.ID,
		Mode:        run.Mode,
		Iterations:  run.Iterations,
		Workers:     run.Workers,
		Seed:        run.Seed,
		CompletedAt: run.CompletedAt,
		Elapsed:     run.Elapsed,
	}

	if run.Mode.IsPoker() {
		expected := PokerProbabilities
		if run.Mode == entities.ModePoker7 {
			expected = Poker7Probabilities
		}
		for _, c := range poker.Categories() {
			report.Rows = append(report.Rows, Row{
				Key:      int(c),
				Label:    c.String(),
				Count:    run.Histogram[int(c)],
				Percent:  run.Histogram.Percent(int(c)),
				Expected: expected[c],
			})
		}
		return report
	}

	report.Mean = run.Histogram.Mean()
	for _, score := range run.Histogram.Keys() {
		if run.Histogram[score] == 0 {
			continue
		}
		report.Rows = append(report.Rows, Row{
			Key:     score,
			Label:   strconv.Itoa(score),
			Count:   run.Histogram[score],
			Percent: run.Histogram.Percent(score),
		})
	}
	return report
}

// FormatPercent renders a percentage the way the report prints it: six decimals
// for poker categories and two for cribbage scores
func (r *Report) FormatPercent(row Row) string {
	if r.Mode.IsPoker() {
		return fmt.Sprintf("%.6f%%", row.Percent)
	}
	return fmt.Sprintf("%.2f%%", row.Percent)
}
