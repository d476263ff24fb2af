package deck

import (
	"fmt"
	"strings"
)

// Card is one of the three ranks or the wildcard.
type Card uint8

const (
	King Card = iota
	Queen
	Ace
	Joker
)

const (
	// NumRanks is the number of declarable ranks. Rank indices in
	// declarations are the Card values King..Ace.
	NumRanks = 3

	// NumKinds counts the ranks plus the Joker.
	NumKinds = NumRanks + 1
)

// String returns the card name, e.g. "King"
func (c Card) String() string {
	switch c {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Ace:
		return "Ace"
	case Joker:
		return "Joker"
	default:
		return "?"
	}
}

// Symbol returns the single-character form used by ParseCards.
func (c Card) Symbol() string {
	switch c {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Ace:
		return "A"
	case Joker:
		return "*"
	default:
		return "?"
	}
}

// IsJoker reports whether the card is the wildcard
func (c Card) IsJoker() bool {
	return c == Joker
}

// Valid reports whether c is one of the four known kinds
func (c Card) Valid() bool {
	return c <= Joker
}

// Satisfies reports whether the card honours a claim of the given rank.
// Jokers satisfy every rank.
func (c Card) Satisfies(rank Card) bool {
	return c == rank || c.IsJoker()
}

// RankFromIndex converts a declaration rank index into a Card.
func RankFromIndex(idx int) (Card, error) {
	if idx < 0 || idx >= NumRanks {
		return 0, fmt.Errorf("rank index %d out of range [0,%d)", idx, NumRanks)
	}
	return Card(idx), nil
}

// ParseCards parses a compact card string such as "KKQA*".
// K, Q and A are case-insensitive; '*' or 'J' is the Joker.
func ParseCards(s string) ([]Card, error) {
	cards := make([]Card, 0, len(s))
	for i, r := range strings.ToUpper(s) {
		switch r {
		case 'K':
			cards = append(cards, King)
		case 'Q':
			cards = append(cards, Queen)
		case 'A':
			cards = append(cards, Ace)
		case '*', 'J':
			cards = append(cards, Joker)
		default:
			return nil, fmt.Errorf("invalid card %q at position %d", r, i)
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards in ParseCards notation
func FormatCards(cards []Card) string {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(c.Symbol())
	}
	return sb.String()
}

// MarshalText encodes the card by name so JSON reports stay readable.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts either the full name or the symbol.
func (c *Card) UnmarshalText(text []byte) error {
	s := string(text)
	for kind := King; kind <= Joker; kind++ {
		if strings.EqualFold(s, kind.String()) || s == kind.Symbol() {
			*c = kind
			return nil
		}
	}
	return fmt.Errorf("unknown card %q", s)
}
