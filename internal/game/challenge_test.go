package game

import (
	"testing"

	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjudicate(t *testing.T) {
	tests := []struct {
		name       string
		challenged bool
		bluff      bool
		want       int
	}{
		{"no challenge honest", false, false, -1},
		{"no challenge bluff", false, true, -1},
		{"caught bluff faults declarer", true, true, 0},
		{"wrongful challenge faults challenger", true, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjudicate(tt.challenged, tt.bluff, 0, 1))
		})
	}
}

func TestFixedProbabilityExtremes(t *testing.T) {
	rng := randutil.New(3)
	for i := 0; i < 100; i++ {
		assert.False(t, FixedProbability{P: 0}.ShouldChallenge(ChallengeContext{}, rng))
		assert.True(t, FixedProbability{P: 1}.ShouldChallenge(ChallengeContext{}, rng))
	}
}

func TestFixedProbabilityRate(t *testing.T) {
	rng := randutil.New(11)
	policy := FixedProbability{P: 0.3}

	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if policy.ShouldChallenge(ChallengeContext{}, rng) {
			hits++
		}
	}
	assert.InDelta(t, 0.3, float64(hits)/n, 0.02)
}

func TestCountingChallengesImpossibleClaims(t *testing.T) {
	ctx := ChallengeContext{
		Declaration: Declaration{Rank: int(deck.King), Quantity: 3},
		Deck:        deck.Composition{King: 2, Queen: 6, Ace: 6, Joker: 1},
	}
	policy := Counting{Fallback: Never{}}
	rng := randutil.New(1)

	// Two kings and a joker exist; nothing held by the challenger.
	assert.False(t, policy.ShouldChallenge(ctx, rng))

	// Challenger holds one king, so at most two can be out there.
	ctx.ChallengerHand[deck.King] = 1
	assert.True(t, policy.ShouldChallenge(ctx, rng))

	// Nil fallback means no challenge for plausible claims.
	ctx.ChallengerHand = [deck.NumKinds]int{}
	assert.False(t, Counting{}.ShouldChallenge(ctx, rng))
	assert.True(t, Counting{Fallback: Always{}}.ShouldChallenge(ctx, rng))
}

func TestNewChallengePolicy(t *testing.T) {
	tests := []struct {
		name string
		want ChallengePolicy
	}{
		{"", FixedProbability{P: 0.3}},
		{PolicyFixed, FixedProbability{P: 0.3}},
		{PolicyAlways, Always{}},
		{PolicyNever, Never{}},
		{PolicyCounting, Counting{Fallback: FixedProbability{P: 0.3}}},
	}
	for _, tt := range tests {
		got, err := NewChallengePolicy(tt.name, 0.3)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := NewChallengePolicy("psychic", 0.3)
	assert.Error(t, err)
}

func TestChallengePolicyFunc(t *testing.T) {
	var seen ChallengeContext
	policy := ChallengePolicyFunc(func(ctx ChallengeContext, _ randutil.Source) bool {
		seen = ctx
		return ctx.DeclarerCardsLeft == 0
	})

	ctx := ChallengeContext{Challenger: 1, DeclarerCardsLeft: 0}
	assert.True(t, policy.ShouldChallenge(ctx, randutil.New(1)))
	assert.Equal(t, 1, seen.Challenger)
}
