package simulation

import (
	"github.com/fadedpez/aceshigh/pkg/entities"
	"github.com/fadedpez/aceshigh/pkg/services/cribbage"
	"github.com/fadedpez/aceshigh/pkg/services/poker"
)

// Players at the table in the poker modes. Only the first player's cards are classified.
const pokerPlayers = 5

// Outcome is the result of one sampled deal
type Outcome struct {
	Key      int                      // Histogram key: cribbage score or poker category ordinal
	CribHand *entities.CribHandRecord // Set by modes that collect hands
}

// Sampler plays one iteration of a mode against a worker's private deck
type Sampler interface {
	Mode() entities.Mode
	// Prepare is called once per worker before the first Sample
	Prepare(deck *entities.Deck)
	// Sample deals, scores and returns every dealt card to the deck
	Sample(deck *entities.Deck) (Outcome, error)
}

// CribbageSampler deals six, keeps the best four, cuts and scores the hand.
// The deck is reused and riffled between deals.
type CribbageSampler struct{}

func (CribbageSampler) Mode() entities.Mode { return entities.ModeCribbage }

func (CribbageSampler) Prepare(deck *entities.Deck) { deck.Shuffle() }

func (CribbageSampler) Sample(deck *entities.Deck) (Outcome, error) {
	cards, err := deck.Deal(cribbage.DealSize + 1)
	if err != nil {
		return Outcome{}, err
	}
	defer func() {
		deck.Return(cards)
		deck.RiffleShuffle()
	}()

	six, cut := cards[:cribbage.DealSize], cards[cribbage.DealSize]
	kept, _, err := cribbage.SelectBestDiscard(six)
	if err != nil {
		return Outcome{}, err
	}
	score, err := cribbage.Score(kept, &cut, false)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Key: score}, nil
}

// CribCollectSampler deals six from a fully shuffled deck, keeps the best four
// and cuts a random card from the rest. Every deal is recorded.
type CribCollectSampler struct{}

func (CribCollectSampler) Mode() entities.Mode { return entities.ModeCribCollect }

func (CribCollectSampler) Prepare(deck *entities.Deck) {}

func (CribCollectSampler) Sample(deck *entities.Deck) (Outcome, error) {
	deck.Shuffle()
	six, err := deck.Deal(cribbage.DealSize)
	if err != nil {
		return Outcome{}, err
	}
	defer deck.Return(six)

	kept, preCut, err := cribbage.SelectBestDiscard(six)
	if err != nil {
		return Outcome{}, err
	}
	cut, err := deck.RandomCard()
	if err != nil {
		return Outcome{}, err
	}
	score, err := cribbage.Score(kept, &cut, false)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Key: score,
		CribHand: &entities.CribHandRecord{
			FullHand:    six.Clone(),
			KeptHand:    kept,
			Cut:         cut,
			Discarded:   cribbage.Discards(six, kept),
			PreCutScore: preCut,
			Score:       score,
		},
	}, nil
}

// PokerSampler deals round robin to a full table, one card per player per round,
// and classifies the first player's cards. With more than five rounds the best
// five card subset is used.
type PokerSampler struct {
	mode   entities.Mode
	rounds int
}

// NewPokerSampler creates the five card draw sampler
func NewPokerSampler() *PokerSampler {
	return &PokerSampler{mode: entities.ModePoker, rounds: poker.HandSize}
}

// NewPoker7Sampler creates the seven card sampler
func NewPoker7Sampler() *PokerSampler {
	return &PokerSampler{mode: entities.ModePoker7, rounds: 7}
}

func (p *PokerSampler) Mode() entities.Mode { return p.mode }

func (p *PokerSampler) Prepare(deck *entities.Deck) { deck.Shuffle() }

func (p *PokerSampler) Sample(deck *entities.Deck) (Outcome, error) {
	primary := make(entities.Hand, 0, p.rounds)
	others := make(entities.Hand, 0, p.rounds*(pokerPlayers-1))
	defer func() {
		deck.Return(primary)
		deck.Return(others)
		deck.RiffleShuffle()
	}()

	for round := 0; round < p.rounds; round++ {
		card, err := deck.DealOne()
		if err != nil {
			return Outcome{}, err
		}
		primary = append(primary, card)

		rest, err := deck.Deal(pokerPlayers - 1)
		if err != nil {
			return Outcome{}, err
		}
		others = append(others, rest...)
	}

	var category poker.Category
	var err error
	if len(primary) == poker.HandSize {
		category, err = poker.Classify(primary)
	} else {
		_, category, err = poker.SelectBest(primary)
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Key: int(category)}, nil
}
