package entities

import (
	"strings"
)

// Hand is an ordered sequence of cards
type Hand []Card

// NewHand creates a hand from the given cards, copying them
func NewHand(cards ...Card) Hand {
	return Hand(cards).Clone()
}

// ParseHand parses whitespace or comma separated cards, e.g. "5H 5D, 5C JS"
func ParseHand(s string) (Hand, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	hand := make(Hand, 0, len(fields))
	for _, field := range fields {
		card, err := ParseCard(field)
		if err != nil {
			return nil, err
		}
		hand = append(hand, card)
	}
	return hand, nil
}

// MustParseHand is ParseHand for literals known to be valid. It panics on error.
func MustParseHand(s string) Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Clone returns a copy that shares no backing array with h
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// With returns a new hand with extra appended, leaving h untouched
func (h Hand) With(extra ...Card) Hand {
	out := make(Hand, 0, len(h)+len(extra))
	out = append(out, h...)
	return append(out, extra...)
}

// Contains reports whether the card is in the hand
func (h Hand) Contains(card Card) bool {
	for _, c := range h {
		if c == card {
			return true
		}
	}
	return false
}

// Without returns the cards of h that are not in other, in order
func (h Hand) Without(other Hand) Hand {
	out := make(Hand, 0, len(h))
	for _, c := range h {
		if !other.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings returns the short form of every card
func (h Hand) Strings() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}

// String renders the hand as space separated cards
func (h Hand) String() string {
	return strings.Join(h.Strings(), " ")
}

// HandFromStrings parses the output of Strings
func HandFromStrings(cards []string) (Hand, error) {
	hand := make(Hand, 0, len(cards))
	for _, s := range cards {
		card, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		hand = append(hand, card)
	}
	return hand, nil
}
