package poker

import (
	"fmt"
	"strings"

	"github.com/fadedpez/aceshigh/internal/types"
)

// Category ranks a five card poker hand from HighCard (0) to RoyalFlush (9).
// Hands within the same category are not ordered against each other.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	HighCard:      "HIGH_CARD",
	Pair:          "PAIR",
	TwoPair:       "TWO_PAIR",
	ThreeOfAKind:  "THREE_OF_A_KIND",
	Straight:      "STRAIGHT",
	Flush:         "FLUSH",
	FullHouse:     "FULL_HOUSE",
	FourOfAKind:   "FOUR_OF_A_KIND",
	StraightFlush: "STRAIGHT_FLUSH",
	RoyalFlush:    "ROYAL_FLUSH",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for i, name := range categoryNames {
		m[name] = Category(i)
	}
	return m
}()

// Categories returns every category in ordinal order
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// IsValid reports whether c is one of the ten categories
func (c Category) IsValid() bool {
	return c >= HighCard && c <= RoyalFlush
}

// String returns the upper snake case name, e.g. "FULL_HOUSE"
func (c Category) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Title returns a human readable name, e.g. "Full House"
func (c Category) Title() string {
	words := strings.Split(strings.ToLower(c.String()), "_")
	for i, w := range words {
		if w == "of" || w == "a" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ParseCategory looks a category up by name. Case and surrounding space are ignored.
func ParseCategory(name string) (Category, error) {
	c, ok := categoriesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("unknown poker category: %s", name))
	}
	return c, nil
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("invalid poker category: %d", int(c)))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
