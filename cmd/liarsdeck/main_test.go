package main

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/liarsdeck/internal/bot"
	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/randutil"
	"github.com/lox/liarsdeck/internal/simulator"
	"github.com/lox/liarsdeck/internal/statistics"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatActions(t *testing.T) {
	out := formatActions(game.NewActionSpace(3))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "9 actions")
	assert.Contains(t, lines[1], "King x 1")
	assert.Contains(t, lines[9], "Ace x 3")
}

func TestFormatStep(t *testing.T) {
	res := game.StepResult{
		Reward: 100,
		Done:   true,
		Info: game.StepInfo{
			Player:      0,
			Declaration: game.Declaration{Rank: 1, Quantity: 2},
			Played:      deck.MustParseCards("QA"),
			Bluff:       true,
			Challenged:  true,
			AtFault:     0,
			Outcome:     game.OutcomeEliminated,
		},
	}
	out := formatStep(res)
	assert.Contains(t, out, "Player 0 declares Queen x 2, plays Q A (bluff), caught")
	assert.Contains(t, out, "Player 0 is eliminated")
	assert.Contains(t, out, "Reward: 100")
}

func TestFormatSummary(t *testing.T) {
	stats := &statistics.Statistics{}
	stats.Add(statistics.EpisodeResult{Steps: 3, TotalReward: 100, Won: true, Outcome: "hand_emptied"})
	stats.Add(statistics.EpisodeResult{Steps: 5, TotalReward: -1, Outcome: "eliminated", Winner: 1, Challenges: 2, Bluffs: 1, CaughtBluffs: 1})

	out := formatSummary(&simulator.Summary{
		Bot:      "honest",
		Seed:     4,
		Workers:  2,
		Duration: 1500 * time.Millisecond,
		Stats:    stats,
	}, game.PolicyFixed)

	assert.Contains(t, out, "Liar's Deck evaluation: honest")
	assert.Contains(t, out, "2 (seed 4, 2 workers)")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "of episodes")
	assert.Contains(t, out, "eliminated=1 hand_emptied=1")
	assert.Contains(t, out, "1.5s")
}

func TestPlayBotDoesNotShareTheDealStream(t *testing.T) {
	space := game.NewActionSpace(3)
	const seed = int64(11)

	b, err := newPlayBot(bot.Random, space, seed, nil)
	require.NoError(t, err)
	seated, err := bot.New(bot.Random, space, randutil.New(bot.SeatSeed(seed, 0)), nil)
	require.NoError(t, err)
	shared, err := bot.New(bot.Random, space, randutil.New(seed), nil)
	require.NoError(t, err)

	var got, want, dealStream []game.Action
	for i := 0; i < 64; i++ {
		got = append(got, b.Act(game.Observation{}))
		want = append(want, seated.Act(game.Observation{}))
		dealStream = append(dealStream, shared.Act(game.Observation{}))
	}
	assert.Equal(t, want, got)
	assert.NotEqual(t, dealStream, got)
}

func TestFormatSummaryHeadlinesSeatZero(t *testing.T) {
	stats := &statistics.Statistics{}
	for i := 0; i < 4; i++ {
		stats.Add(statistics.EpisodeResult{Steps: 4, FinalReward: 100, TotalReward: 100, Won: true, Winner: 1, Outcome: "eliminated"})
	}

	out := formatSummary(&simulator.Summary{Bot: "honest", Opponent: "aggressive", Stats: stats}, game.PolicyFixed)
	assert.Contains(t, out, "honest vs aggressive")

	lines := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		for _, label := range []string{"Seat 0 wins", "Win reward"} {
			if strings.HasPrefix(line, label) {
				lines[label] = line
			}
		}
	}
	assert.Contains(t, lines["Seat 0 wins"], " 0.0%")
	assert.NotContains(t, lines["Seat 0 wins"], "100")
	assert.Contains(t, lines["Win reward"], "100.0% of episodes")
}
