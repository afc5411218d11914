package poker

import (
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/combinations"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// SelectBest returns the five card subset of cards with the highest category.
// Ties go to the first subset in input order.
func SelectBest(cards entities.Hand) (entities.Hand, Category, error) {
	if len(cards) < HandSize {
		return nil, HighCard, types.NewInvalidHandError("best hand selection needs at least %d cards, got %d", HandSize, len(cards))
	}

	var best entities.Hand
	bestCategory := Category(-1)
	g := combinations.New(len(cards), HandSize)
	for g.Next() {
		hand := entities.Hand(combinations.Select(cards, g.Indices()))
		category, err := Classify(hand)
		if err != nil {
			return nil, HighCard, err
		}
		if category > bestCategory {
			best, bestCategory = hand, category
			if category == RoyalFlush {
				break
			}
		}
	}

	return best, bestCategory, nil
}
