package cribbage

import (
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/combinations"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// SelectBestDiscard picks the four cards of a six card deal with the highest
// pre-cut score. Ties go to the first subset in input order.
func SelectBestDiscard(six entities.Hand) (entities.Hand, int, error) {
	if len(six) != DealSize {
		return nil, 0, types.NewInvalidHandError("discard selection needs exactly %d cards, got %d", DealSize, len(six))
	}

	var best entities.Hand
	bestScore := -1
	g := combinations.New(len(six), HandSize)
	for g.Next() {
		kept := entities.Hand(combinations.Select(six, g.Indices()))
		score, err := Score(kept, nil, false)
		if err != nil {
			return nil, 0, err
		}
		if score > bestScore {
			best, bestScore = kept, score
		}
	}

	return best, bestScore, nil
}

// Discards returns the cards of deal that were not kept, in deal order
func Discards(deal, kept entities.Hand) entities.Hand {
	return deal.Without(kept)
}
