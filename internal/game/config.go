package game

import (
	"fmt"

	"github.com/lox/liarsdeck/internal/deck"
)

// Config holds the rules of an episode.
type Config struct {
	NumPlayers int
	HandSize   int
	MaxDeclare int
	Deck       deck.Composition

	// Revolver: Chambers positions, LethalChambers of which kill. Bullets is
	// the shared pool of pulls before every pull becomes a survival.
	Chambers       int
	LethalChambers int
	Bullets        int

	// ChallengeProbability drives the default FixedProbability policy.
	ChallengeProbability float64

	WinReward     float64
	PenaltyReward float64
}

// DefaultConfig returns the standard two-player game.
func DefaultConfig() Config {
	return Config{
		NumPlayers:           2,
		HandSize:             5,
		MaxDeclare:           3,
		Deck:                 deck.DefaultComposition(),
		Chambers:             6,
		LethalChambers:       1,
		Bullets:              6,
		ChallengeProbability: 0.3,
		WinReward:            100,
		PenaltyReward:        -1,
	}
}

// Validate checks the rules are playable
func (c Config) Validate() error {
	if c.NumPlayers < 2 {
		return fmt.Errorf("num players must be at least 2, got %d", c.NumPlayers)
	}
	if c.HandSize < 1 {
		return fmt.Errorf("hand size must be positive, got %d", c.HandSize)
	}
	if c.MaxDeclare < 1 {
		return fmt.Errorf("max declare must be positive, got %d", c.MaxDeclare)
	}
	if err := c.Deck.Validate(); err != nil {
		return err
	}
	if c.Chambers < 1 {
		return fmt.Errorf("chambers must be positive, got %d", c.Chambers)
	}
	if c.LethalChambers < 0 || c.LethalChambers > c.Chambers {
		return fmt.Errorf("lethal chambers must be in [0,%d], got %d", c.Chambers, c.LethalChambers)
	}
	if c.Bullets < 0 {
		return fmt.Errorf("bullets cannot be negative, got %d", c.Bullets)
	}
	if c.ChallengeProbability < 0 || c.ChallengeProbability > 1 {
		return fmt.Errorf("challenge probability must be in [0,1], got %v", c.ChallengeProbability)
	}
	return nil
}

// ActionSpace returns the discrete action space implied by MaxDeclare
func (c Config) ActionSpace() ActionSpace {
	return NewActionSpace(c.MaxDeclare)
}
