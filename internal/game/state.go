package game

import (
	rand "math/rand/v2"

	"github.com/lox/liarsdeck/internal/deck"
)

// state is one episode. It is replaced wholesale by Reset and frozen once
// done is set.
type state struct {
	seed     int64
	rng      *rand.Rand
	hands    []*deck.Hand
	player   int
	current  Declaration
	previous Declaration
	revolver *Revolver
	done     bool
	winner   int
	steps    int
}

func (s *state) nextPlayer() int {
	return (s.player + 1) % len(s.hands)
}

func (s *state) finish(winner int) {
	s.done = true
	s.winner = winner
}

func (s *state) observe() Observation {
	return Observation{
		Player:               s.player,
		PlayerHand:           s.hands[s.player].Counts(),
		CurrentDeclaration:   s.current.Pair(),
		PreviousPlayerAction: s.previous.Pair(),
		BulletsRemaining:     s.revolver.Bullets(),
	}
}
