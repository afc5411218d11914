package poker

import (
	"sort"

	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// HandSize is the number of cards in a classified poker hand
const HandSize = 5

// broadway is 10-J-Q-K-A with the ace counted low
var broadway = [HandSize]int{1, 10, 11, 12, 13}

// Classify returns the category of exactly five cards.
//
// Aces play low in A-2-3-4-5 and high in 10-J-Q-K-A. Straights do not wrap, so
// Q-K-A-2-3 is ace high. The suited 10-J-Q-K-A is a royal flush and the suited
// wheel is a straight flush.
func Classify(hand entities.Hand) (Category, error) {
	if len(hand) != HandSize {
		return HighCard, types.NewInvalidHandError("poker hand must contain exactly %d cards, got %d", HandSize, len(hand))
	}

	multiplicity := make(map[int]int, HandSize)
	for _, c := range hand {
		multiplicity[c.Value()]++
	}

	switch len(multiplicity) {
	case 5:
		return classifyDistinct(hand), nil
	case 4:
		return Pair, nil
	case 3:
		for _, n := range multiplicity {
			if n == 3 {
				return ThreeOfAKind, nil
			}
		}
		return TwoPair, nil
	default:
		for _, n := range multiplicity {
			if n == 4 {
				return FourOfAKind, nil
			}
		}
		return FullHouse, nil
	}
}

func classifyDistinct(hand entities.Hand) Category {
	var values [HandSize]int
	for i, c := range hand {
		values[i] = c.Value()
	}
	sort.Ints(values[:])

	isBroadway := values == broadway
	isStraight := isBroadway || values[HandSize-1]-values[0] == HandSize-1
	isFlush := true
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			isFlush = false
			break
		}
	}

	switch {
	case isStraight && isFlush && isBroadway:
		return RoyalFlush
	case isStraight && isFlush:
		return StraightFlush
	case isFlush:
		return Flush
	case isStraight:
		return Straight
	default:
		return HighCard
	}
}
