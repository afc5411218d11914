package entities

import (
	"fmt"
	"strings"

	"github.com/fadedpez/aceshigh/internal/types"
)

// Suit represents a card suit

type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Suits lists the four suits in deck order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var suitLetters = map[Suit]string{
	Hearts:   "H",
	Diamonds: "D",
	Clubs:    "C",
	Spades:   "S",
}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

// Symbol returns the unicode suit symbol
func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// Rank represents a card rank

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Ranks lists the thirteen ranks from Ace to King
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankValues = map[Rank]int{
	Ace: 1, Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7,
	Eight: 8, Nine: 9, Ten: 10, Jack: 11, Queen: 12, King: 13,
}

var faceNames = map[Rank]string{
	Ace: "Ace", Two: "Two", Three: "Three", Four: "Four", Five: "Five", Six: "Six", Seven: "Seven",
	Eight: "Eight", Nine: "Nine", Ten: "Ten", Jack: "Jack", Queen: "Queen", King: "King",
}

// Card represents a playing card. Cards are plain values and compare with ==.

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a new card

func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit: suit,
		Rank: rank,
	}
}

// Value returns the rank value, Ace=1 through King=13
func (c Card) Value() int {
	return rankValues[c.Rank]
}

// CountValue returns the value used when counting to fifteen: face cards count 10
func (c Card) CountValue() int {
	if v := c.Value(); v < 10 {
		return v
	}
	return 10
}

// Face returns the face name, e.g. "Jack"
func (c Card) Face() string {
	return faceNames[c.Rank]
}

// IsValid reports whether both suit and rank are known
func (c Card) IsValid() bool {
	_, okRank := rankValues[c.Rank]
	_, okSuit := suitLetters[c.Suit]
	return okRank && okSuit
}

// String returns the short form of the card, e.g. "10H" or "QS"

func (c Card) String() string {
	return string(c.Rank) + suitLetters[c.Suit]
}

// Pretty returns the rank followed by the suit symbol, e.g. "Q♠"
func (c Card) Pretty() string {
	return string(c.Rank) + c.Suit.Symbol()
}

// ParseCard parses the short form produced by String. It also accepts "T" for ten,
// lower case letters and suit symbols.
func ParseCard(s string) (Card, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return Card{}, types.NewGameError(types.ErrInvalidArgument, "empty card")
	}

	var suit Suit
	var rankPart string
	for candidate, letter := range suitLetters {
		symbol := suitSymbols[candidate]
		if strings.HasSuffix(raw, letter) {
			suit, rankPart = candidate, strings.TrimSuffix(raw, letter)
			break
		}
		if strings.HasSuffix(raw, symbol) {
			suit, rankPart = candidate, strings.TrimSuffix(raw, symbol)
			break
		}
	}
	if suit == "" {
		return Card{}, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("unknown suit in card %q", s))
	}

	if rankPart == "T" {
		rankPart = string(Ten)
	}
	rank := Rank(rankPart)
	if _, ok := rankValues[rank]; !ok {
		return Card{}, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("unknown rank in card %q", s))
	}

	return NewCard(suit, rank), nil
}

// MustParseCard is ParseCard for literals known to be valid. It panics on error.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
