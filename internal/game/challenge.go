package game

import (
	"fmt"

	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/randutil"
)

// ChallengeContext is what the next player knows when deciding whether to
// dispute a declaration.
type ChallengeContext struct {
	Challenger        int
	Declarer          int
	Declaration       Declaration
	ChallengerHand    [deck.NumKinds]int
	Deck              deck.Composition
	DeclarerCardsLeft int
}

// ChallengePolicy decides whether the next player challenges.
type ChallengePolicy interface {
	ShouldChallenge(ctx ChallengeContext, rng randutil.Source) bool
}

// ChallengePolicyFunc adapts a function to ChallengePolicy.
type ChallengePolicyFunc func(ctx ChallengeContext, rng randutil.Source) bool

func (f ChallengePolicyFunc) ShouldChallenge(ctx ChallengeContext, rng randutil.Source) bool {
	return f(ctx, rng)
}

// FixedProbability challenges with probability P regardless of state.
type FixedProbability struct {
	P float64
}

func (p FixedProbability) ShouldChallenge(_ ChallengeContext, rng randutil.Source) bool {
	return rng.Float64() < p.P
}

// Always challenges every declaration.
type Always struct{}

func (Always) ShouldChallenge(ChallengeContext, randutil.Source) bool { return true }

// Never lets every declaration stand.
type Never struct{}

func (Never) ShouldChallenge(ChallengeContext, randutil.Source) bool { return false }

// Counting challenges any claim that cannot be true given the deck and the
// challenger's own hand, and defers to Fallback otherwise.
type Counting struct {
	Fallback ChallengePolicy
}

func (c Counting) ShouldChallenge(ctx ChallengeContext, rng randutil.Source) bool {
	if ctx.Declaration.Quantity > possibleHonestCards(ctx) {
		return true
	}
	if c.Fallback == nil {
		return false
	}
	return c.Fallback.ShouldChallenge(ctx, rng)
}

// possibleHonestCards is the number of cards satisfying the claim that
// could still be out of the challenger's sight.
func possibleHonestCards(ctx ChallengeContext) int {
	rank := ctx.Declaration.Card()
	n := ctx.Deck[rank] + ctx.Deck[deck.Joker] - ctx.ChallengerHand[rank] - ctx.ChallengerHand[deck.Joker]
	if n < 0 {
		return 0
	}
	return n
}

// Policy names accepted by NewChallengePolicy.
const (
	PolicyFixed    = "fixed"
	PolicyAlways   = "always"
	PolicyNever    = "never"
	PolicyCounting = "counting"
)

// NewChallengePolicy builds a named policy. p is the probability used by
// "fixed" and by the fallback of "counting".
func NewChallengePolicy(name string, p float64) (ChallengePolicy, error) {
	switch name {
	case "", PolicyFixed:
		return FixedProbability{P: p}, nil
	case PolicyAlways:
		return Always{}, nil
	case PolicyNever:
		return Never{}, nil
	case PolicyCounting:
		return Counting{Fallback: FixedProbability{P: p}}, nil
	default:
		return nil, fmt.Errorf("unknown challenge policy %q", name)
	}
}

// adjudicate returns the player at fault, or -1 when no challenge was made.
// A caught bluff faults the declarer; challenging an honest play faults the
// challenger.
func adjudicate(challenged, bluff bool, declarer, challenger int) int {
	if !challenged {
		return -1
	}
	if bluff {
		return declarer
	}
	return challenger
}
