package cribbage

import (
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/combinations"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

const (
	MaxHandScore = 29 // Four fives with the cut five and nobs
	HandSize     = 4  // Cards kept after the discard
	DealSize     = 6  // Cards dealt to each player in a two-handed game

	fifteenTarget = 15
	fifteenPoints = 2
	pairPoints    = 2
	minRunLength  = 3
	flushPoints   = 4
	nobsPoints    = 1
)

// Breakdown itemises the points of a scored hand
type Breakdown struct {
	Fifteens int `json:"fifteens"`
	Pairs    int `json:"pairs"`
	Runs     int `json:"runs"`
	Flush    int `json:"flush"`
	Nobs     int `json:"nobs"`
	Total    int `json:"total"`
}

// Score returns the points for hand with an optional cut card. Crib hands only
// score a flush when the cut matches as well.
func Score(hand entities.Hand, cut *entities.Card, isCrib bool) (int, error) {
	breakdown, err := ScoreBreakdown(hand, cut, isCrib)
	if err != nil {
		return 0, err
	}
	return breakdown.Total, nil
}

// ScoreBreakdown scores hand like Score and reports where each point came from.
// The caller's hand is never modified.
func ScoreBreakdown(hand entities.Hand, cut *entities.Card, isCrib bool) (Breakdown, error) {
	if len(hand) == 0 {
		return Breakdown{}, types.NewInvalidHandError("cribbage hand must contain at least one card")
	}

	all := hand
	if cut != nil {
		all = hand.With(*cut)
	}

	b := Breakdown{
		Fifteens: countFifteens(all),
		Pairs:    countPairs(all),
		Runs:     countRuns(all),
		Flush:    countFlush(hand, cut, isCrib),
		Nobs:     countNobs(hand, cut),
	}
	b.Total = b.Fifteens + b.Pairs + b.Runs + b.Flush + b.Nobs
	return b, nil
}

func countFifteens(cards entities.Hand) int {
	points := 0
	for k := len(cards); k >= 2; k-- {
		g := combinations.New(len(cards), k)
		for g.Next() {
			sum := 0
			for _, i := range g.Indices() {
				sum += cards[i].CountValue()
			}
			if sum == fifteenTarget {
				points += fifteenPoints
			}
		}
	}
	return points
}

func countPairs(cards entities.Hand) int {
	points := 0
	g := combinations.New(len(cards), 2)
	for g.Next() {
		idx := g.Indices()
		if cards[idx[0]].Value() == cards[idx[1]].Value() {
			points += pairPoints
		}
	}
	return points
}

// countRuns scores only the longest run length present. A run of four is not
// also counted as two runs of three.
func countRuns(cards entities.Hand) int {
	for k := len(cards); k >= minRunLength; k-- {
		found := 0
		g := combinations.New(len(cards), k)
		for g.Next() {
			if isRun(cards, g.Indices()) {
				found++
			}
		}
		if found > 0 {
			return k * found
		}
	}
	return 0
}

func isRun(cards entities.Hand, indices []int) bool {
	seen := make(map[int]bool, len(indices))
	lo, hi := cards[indices[0]].Value(), cards[indices[0]].Value()
	for _, i := range indices {
		v := cards[i].Value()
		if seen[v] {
			return false
		}
		seen[v] = true
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi-lo+1 == len(indices)
}

func countFlush(hand entities.Hand, cut *entities.Card, isCrib bool) int {
	suit := hand[0].Suit
	for _, c := range hand[1:] {
		if c.Suit != suit {
			return 0
		}
	}

	if cut != nil && cut.Suit == suit {
		return flushPoints + 1
	}
	if isCrib {
		return 0
	}
	return flushPoints
}

func countNobs(hand entities.Hand, cut *entities.Card) int {
	if cut == nil {
		return 0
	}
	for _, c := range hand {
		if c.Rank == entities.Jack && c.Suit == cut.Suit {
			return nobsPoints
		}
	}
	return 0
}
