package game

import (
	"fmt"

	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/randutil"
)

// Declaration is a public claim of Quantity cards of rank Rank.
type Declaration struct {
	Rank     int `json:"rank"`
	Quantity int `json:"quantity"`
}

var (
	initialDeclaration = Declaration{Rank: 0, Quantity: 1}
	noDeclaration      = Declaration{Rank: 0, Quantity: 0}
)

// Card returns the claimed rank as a card
func (d Declaration) Card() deck.Card {
	return deck.Card(d.Rank)
}

// Pair returns the (rank, quantity) pair used in observations
func (d Declaration) Pair() [2]int {
	return [2]int{d.Rank, d.Quantity}
}

func (d Declaration) String() string {
	return fmt.Sprintf("%s x %d", d.Card(), d.Quantity)
}

// Play is what the declarer actually put down.
type Play struct {
	Cards []deck.Card `json:"cards"`
	Bluff bool        `json:"bluff"`
}

// resolveDeclaration removes up to decl.Quantity cards from hand. For each
// card it prefers the claimed rank, then a Joker, then a uniformly random
// remaining card. It stops early once the hand is empty.
func resolveDeclaration(hand *deck.Hand, decl Declaration, rng randutil.Source) Play {
	claimed := decl.Card()
	played := make([]deck.Card, 0, decl.Quantity)

	for i := 0; i < decl.Quantity; i++ {
		if hand.IsEmpty() {
			break
		}
		switch {
		case hand.Remove(claimed):
			played = append(played, claimed)
		case hand.Remove(deck.Joker):
			played = append(played, deck.Joker)
		default:
			played = append(played, hand.RemoveAt(rng.IntN(hand.Len())))
		}
	}

	return Play{Cards: played, Bluff: IsBluff(claimed, played)}
}

// IsBluff reports whether any played card is neither the claimed rank nor
// a Joker.
func IsBluff(claimed deck.Card, played []deck.Card) bool {
	for _, c := range played {
		if !c.Satisfies(claimed) {
			return true
		}
	}
	return false
}
