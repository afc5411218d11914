package entities

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fadedpez/aceshigh/internal/types"
)

// Deck is a stack of cards dealt from the top. A Deck is not safe for concurrent use.
type Deck struct {
	Cards Hand
	rng   *rand.Rand
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit, seeded from the clock
func NewDeck() *Deck {
	return NewDeckWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSeededDeck creates a new deck whose shuffles are reproducible for a given seed
func NewSeededDeck(seed int64) *Deck {
	return NewDeckWithRand(rand.New(rand.NewSource(seed)))
}

// NewDeckWithRand creates a new unshuffled deck that draws randomness from rng
func NewDeckWithRand(rng *rand.Rand) *Deck {
	cards := make(Hand, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	return &Deck{Cards: cards, rng: rng}
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Shuffle performs a full Fisher-Yates shuffle
func (d *Deck) Shuffle() *Deck {
	d.rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	return d
}

// RiffleShuffle performs a single riffle following the Gilbert-Shannon-Reeds model:
// the cut point is binomially distributed and cards drop from each packet with
// probability proportional to the packet's remaining size.
func (d *Deck) RiffleShuffle() *Deck {
	n := len(d.Cards)
	if n < 2 {
		return d
	}

	cut := 0
	for i := 0; i < n; i++ {
		if d.rng.Intn(2) == 0 {
			cut++
		}
	}

	left := d.Cards[:cut].Clone()
	right := d.Cards[cut:].Clone()
	out := make(Hand, 0, n)
	for len(left) > 0 || len(right) > 0 {
		if d.rng.Intn(len(left)+len(right)) < len(left) {
			out = append(out, left[0])
			left = left[1:]
		} else {
			out = append(out, right[0])
			right = right[1:]
		}
	}

	d.Cards = out
	return d
}

// Deal removes and returns the top n cards
func (d *Deck) Deal(n int) (Hand, error) {
	if n < 0 || n > len(d.Cards) {
		return nil, types.NewGameError(types.ErrInvalidArgument,
			fmt.Sprintf("cannot deal %d cards from a deck of %d", n, len(d.Cards)))
	}

	hand := d.Cards[:n].Clone()
	d.Cards = d.Cards[n:]
	return hand, nil
}

// DealOne removes and returns the top card
func (d *Deck) DealOne() (Card, error) {
	hand, err := d.Deal(1)
	if err != nil {
		return Card{}, err
	}
	return hand[0], nil
}

// Peek returns the card at position i without removing it
func (d *Deck) Peek(i int) (Card, error) {
	if i < 0 || i >= len(d.Cards) {
		return Card{}, types.NewGameError(types.ErrInvalidArgument,
			fmt.Sprintf("position %d outside deck of %d", i, len(d.Cards)))
	}
	return d.Cards[i], nil
}

// RandomCard returns a uniformly chosen card still in the deck without removing it
func (d *Deck) RandomCard() (Card, error) {
	if len(d.Cards) == 0 {
		return Card{}, types.NewGameError(types.ErrInvalidArgument, "deck is empty")
	}
	return d.Cards[d.rng.Intn(len(d.Cards))], nil
}

// Return puts cards back at the bottom of the deck
func (d *Deck) Return(cards Hand) {
	d.Cards = d.Cards.With(cards...)
}
