// Package bot provides scripted agents that drive a game.Environment from
// its observations.
package bot

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/game"
)

// Bot chooses the current player's action from their observation.
type Bot interface {
	Act(obs game.Observation) game.Action
}

// Names of the built-in bots
const (
	Random     = "random"
	Honest     = "honest"
	Aggressive = "aggressive"
)

// Names lists the registered bot names in sorted order
func Names() []string {
	names := []string{Random, Honest, Aggressive}
	sort.Strings(names)
	return names
}

// New creates a bot of the specified type
func New(name string, space game.ActionSpace, rng *rand.Rand, logger *log.Logger) (Bot, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	switch name {
	case Random:
		return NewRandBot(space, rng, logger), nil
	case Honest:
		return NewHonestBot(space, logger), nil
	case Aggressive:
		return NewAggressiveBot(space, logger), nil
	default:
		return nil, fmt.Errorf("unknown bot %q (want one of %v)", name, Names())
	}
}

// seatSeedMix keeps a bot's stream apart from the deal drawn from the same
// episode seed.
const seatSeedMix = 0x5deece66d

// SeatSeed derives the seed for the bot in seat from an episode seed
func SeatSeed(episodeSeed int64, seat int) int64 {
	return (episodeSeed ^ seatSeedMix) + int64(seat)
}

// strongestRank returns the rank with the most copies in hand, lowest rank
// on ties, and that count.
func strongestRank(hand [deck.NumKinds]int) (deck.Card, int) {
	best, count := deck.King, hand[deck.King]
	for rank := deck.Queen; rank < deck.Joker; rank++ {
		if hand[rank] > count {
			best, count = rank, hand[rank]
		}
	}
	return best, count
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
