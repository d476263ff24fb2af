package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func decode(t *testing.T, space game.ActionSpace, a game.Action) game.Declaration {
	t.Helper()
	decl, err := space.Decode(a)
	require.NoError(t, err)
	return decl
}

func TestNew(t *testing.T) {
	space := game.NewActionSpace(3)
	for _, name := range Names() {
		b, err := New(name, space, randutil.New(1), testLogger())
		require.NoError(t, err, name)
		assert.NotNil(t, b)
	}

	_, err := New("telepath", space, randutil.New(1), testLogger())
	assert.Error(t, err)
}

func TestRandBotStaysInRange(t *testing.T) {
	space := game.NewActionSpace(3)
	b := NewRandBot(space, randutil.New(8), testLogger())

	seen := make(map[game.Action]bool)
	for i := 0; i < 500; i++ {
		a := b.Act(game.Observation{})
		require.True(t, space.Contains(a))
		seen[a] = true
	}
	assert.Len(t, seen, space.Size())
}

func TestHonestBot(t *testing.T) {
	space := game.NewActionSpace(3)
	b := NewHonestBot(space, testLogger())

	tests := []struct {
		name string
		hand [deck.NumKinds]int
		want game.Declaration
	}{
		{"most plentiful rank", [deck.NumKinds]int{1, 2, 0, 0}, game.Declaration{Rank: 1, Quantity: 2}},
		{"jokers back the claim", [deck.NumKinds]int{0, 0, 1, 1}, game.Declaration{Rank: 2, Quantity: 2}},
		{"capped at max declare", [deck.NumKinds]int{4, 0, 0, 1}, game.Declaration{Rank: 0, Quantity: 3}},
		{"ties go to lowest rank", [deck.NumKinds]int{1, 1, 1, 0}, game.Declaration{Rank: 0, Quantity: 1}},
		{"jokers only", [deck.NumKinds]int{0, 0, 0, 2}, game.Declaration{Rank: 0, Quantity: 2}},
		{"empty hand", [deck.NumKinds]int{}, game.Declaration{Rank: 0, Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := b.Act(game.Observation{PlayerHand: tt.hand})
			assert.Equal(t, tt.want, decode(t, space, a))
		})
	}
}

func TestHonestBotNeverBluffs(t *testing.T) {
	env, err := game.New(game.DefaultConfig(), game.WithSeed(3), game.WithChallengePolicy(game.Never{}))
	require.NoError(t, err)
	b := NewHonestBot(env.ActionSpace(), testLogger())

	for seed := int64(0); seed < 50; seed++ {
		obs := env.Reset(&seed)
		for !env.Done() {
			res, err := env.Step(b.Act(obs))
			require.NoError(t, err)
			assert.False(t, res.Info.Bluff)
			obs = res.Observation
		}
	}
}

func TestAggressiveBotClaimsMax(t *testing.T) {
	space := game.NewActionSpace(3)
	b := NewAggressiveBot(space, testLogger())

	a := b.Act(game.Observation{PlayerHand: [deck.NumKinds]int{0, 0, 2, 0}})
	assert.Equal(t, game.Declaration{Rank: 2, Quantity: 3}, decode(t, space, a))
}

func TestSeatSeedSeparatesStreams(t *testing.T) {
	const episode = int64(42)
	assert.NotEqual(t, episode, SeatSeed(episode, 0))
	assert.NotEqual(t, SeatSeed(episode, 0), SeatSeed(episode, 1))
	assert.Equal(t, SeatSeed(episode, 1), SeatSeed(episode, 1))

	deal := randutil.New(episode)
	seat := randutil.New(SeatSeed(episode, 0))
	same := 0
	for i := 0; i < 32; i++ {
		if deal.Int64() == seat.Int64() {
			same++
		}
	}
	assert.Less(t, same, 32)
}
