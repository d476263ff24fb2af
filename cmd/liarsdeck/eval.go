package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lox/liarsdeck/internal/config"
	"github.com/lox/liarsdeck/internal/simulator"
)

// EvalCmd runs the evaluation driver
type EvalCmd struct {
	Episodes        *int     `short:"n" help:"Number of episodes (overrides config)"`
	Bot             *string  `short:"b" help:"Bot to evaluate: random, honest, aggressive (overrides config)"`
	Opponent        *string  `help:"Bot for every seat but 0; empty means self-play (overrides config)"`
	Seed            *int64   `short:"s" help:"Base seed; episode i uses seed+i (overrides config)"`
	Workers         *int     `short:"w" help:"Parallel workers (overrides config)"`
	MaxSteps        *int     `help:"Fail an episode after this many steps (overrides config)"`
	Players         *int     `help:"Number of players (overrides config)"`
	ChallengeProb   *float64 `name:"challenge-probability" help:"Challenge probability (overrides config)"`
	ChallengePolicy *string  `help:"Challenge policy: fixed, always, never, counting (overrides config)"`
	Report          *string  `short:"o" help:"Write a JSON report to this path (overrides config)"`
	Episodic        bool     `help:"Include per-episode results in the report"`
	ProgressEvery   int      `default:"0" help:"Log progress every N episodes (0 disables)"`
}

func (c *EvalCmd) overrides() config.Overrides {
	return config.Overrides{
		NumPlayers:           c.Players,
		ChallengeProbability: c.ChallengeProb,
		ChallengePolicy:      c.ChallengePolicy,
		Episodes:             c.Episodes,
		Bot:                  c.Bot,
		Opponent:             c.Opponent,
		Seed:                 c.Seed,
		Workers:              c.Workers,
		MaxSteps:             c.MaxSteps,
		Report:               c.Report,
	}
}

func (c *EvalCmd) Run(g *Globals) error {
	cfg, err := g.load(c.overrides())
	if err != nil {
		return err
	}
	logger := g.logger(cfg)
	ctx := setupSignalHandler(logger)

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	sim, err := simulator.New(simulator.Config{
		Episodes:      cfg.Evaluation.Episodes,
		Bot:           cfg.Evaluation.Bot,
		Opponent:      cfg.Evaluation.Opponent,
		Seed:          cfg.Evaluation.Seed,
		Workers:       cfg.Evaluation.Workers,
		MaxSteps:      cfg.Evaluation.MaxSteps,
		Env:           cfg.GameConfig(),
		Policy:        policy,
		ProgressEvery: c.ProgressEvery,
		Progress: func(done, total int) {
			logger.Info("Progress", "episodes", fmt.Sprintf("%d/%d", done, total))
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	summary, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Println(formatSummary(summary, cfg.Environment.ChallengePolicy))

	if path := cfg.Evaluation.Report; path != "" {
		if err := summary.WriteReport(path, c.Episodic); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", path)
	}
	return nil
}

func formatSummary(s *simulator.Summary, policy string) string {
	stats := s.Stats
	low, high := stats.ConfidenceInterval95()

	// Every terminal step pays the win reward, so the seat that finished the
	// episode in its favour is the meaningful headline.
	seatWins := stats.SeatWinRate(0)
	winRate := fmt.Sprintf("%.1f%%", seatWins*100)
	if seatWins >= 0.5 {
		winRate = winStyle.Render(winRate)
	} else {
		winRate = lossStyle.Render(winRate)
	}

	title := s.Bot
	if s.Opponent != "" {
		title = fmt.Sprintf("%s vs %s", s.Bot, s.Opponent)
	}

	lines := []string{
		headerStyle.Render("Liar's Deck evaluation: " + title),
		row("Episodes", fmt.Sprintf("%d (seed %d, %d workers)", stats.Episodes, s.Seed, s.Workers)),
		row("Challenge", policy),
		row("Seat 0 wins", winRate),
		row("Win reward", fmt.Sprintf("%.1f%% of episodes", stats.WinRate()*100)),
		row("Mean reward", fmt.Sprintf("%.2f ± %.2f (95%% CI [%.2f, %.2f])", stats.Mean(), stats.StdDev(), low, high)),
		row("Episode length", fmt.Sprintf("mean %.1f, median %.0f, p95 %.0f", stats.MeanSteps(), stats.MedianSteps(), stats.StepsPercentile(0.95))),
		row("Challenges", fmt.Sprintf("%d (%d survived)", stats.Challenges, stats.Survivals)),
		row("Bluffs", fmt.Sprintf("%d (%.1f%% caught)", stats.Bluffs, stats.BluffCatchRate()*100)),
		row("Outcomes", formatCounts(stats.Outcomes)),
		row("Duration", s.Duration.Round(time.Millisecond).String()),
	}
	return strings.Join(lines, "\n")
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
