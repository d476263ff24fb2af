package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/bot"
	"github.com/lox/liarsdeck/internal/client"
	"github.com/lox/liarsdeck/internal/config"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/randutil"
)

// PlayCmd plays one episode and prints every turn
type PlayCmd struct {
	Bot     *string `short:"b" help:"Bot that plays every seat (overrides config)"`
	Seed    *int64  `short:"s" help:"Episode seed (default: random)"`
	Players *int    `help:"Number of players (overrides config)"`
	Server  string  `help:"Play against a remote environment at this WebSocket URL"`
}

// episodeEnv is the part of the environment contract play needs, satisfied
// locally and remotely.
type episodeEnv interface {
	ActionSpace() game.ActionSpace
	Reset(ctx context.Context, seed *int64) (game.Observation, error)
	Step(ctx context.Context, a game.Action) (game.StepResult, error)
	Render(ctx context.Context) (string, error)
}

type localEnv struct {
	*game.Environment
}

func (e localEnv) Reset(_ context.Context, seed *int64) (game.Observation, error) {
	return e.Environment.Reset(seed), nil
}

func (e localEnv) Step(_ context.Context, a game.Action) (game.StepResult, error) {
	return e.Environment.Step(a)
}

func (e localEnv) Render(context.Context) (string, error) {
	return e.Environment.Render(), nil
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load(config.Overrides{Bot: c.Bot, NumPlayers: c.Players})
	if err != nil {
		return err
	}
	logger := g.logger(cfg)
	ctx := setupSignalHandler(logger)

	env, closeEnv, err := c.environment(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeEnv()

	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	b, err := newPlayBot(cfg.Evaluation.Bot, env.ActionSpace(), seed, logger)
	if err != nil {
		return err
	}

	obs, err := env.Reset(ctx, &seed)
	if err != nil {
		return err
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Liar's Deck: %s bot, seed %d", cfg.Evaluation.Bot, seed)))

	for {
		text, err := env.Render(ctx)
		if err != nil {
			return err
		}
		fmt.Print(text)

		res, err := env.Step(ctx, b.Act(obs))
		if err != nil {
			return err
		}
		fmt.Println(formatStep(res))

		if res.Done {
			text, err := env.Render(ctx)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		}
		obs = res.Observation
	}
}

// newPlayBot seeds the bot apart from the episode so a random bot does not
// replay the deal's stream.
func newPlayBot(name string, space game.ActionSpace, seed int64, logger *log.Logger) (bot.Bot, error) {
	return bot.New(name, space, randutil.New(bot.SeatSeed(seed, 0)), logger)
}

func (c *PlayCmd) environment(ctx context.Context, cfg *config.Config, logger *log.Logger) (episodeEnv, func(), error) {
	if c.Server != "" {
		remote, err := client.Dial(ctx, c.Server, logger)
		if err != nil {
			return nil, nil, err
		}
		return remote, func() { _ = remote.Close() }, nil
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, nil, err
	}
	env, err := game.New(cfg.GameConfig(), game.WithLogger(logger), game.WithChallengePolicy(policy))
	if err != nil {
		return nil, nil, err
	}
	return localEnv{env}, func() {}, nil
}

func formatStep(res game.StepResult) string {
	info := res.Info
	line := fmt.Sprintf("Player %d declares %s, plays %s", info.Player, info.Declaration, formatPlayed(info))
	if info.Bluff {
		line += warnStyle.Render(" (bluff)")
	}

	switch {
	case !info.Challenged:
		line += ", unchallenged"
	case info.AtFault == info.Player:
		line += ", caught"
	default:
		line += ", wrongly challenged"
	}

	switch info.Outcome {
	case game.OutcomeSurvived:
		line += fmt.Sprintf("\nPlayer %d pulls the trigger and survives", info.AtFault)
	case game.OutcomeEliminated:
		line += lossStyle.Render(fmt.Sprintf("\nPlayer %d is eliminated", info.AtFault))
	case game.OutcomeHandEmptied:
		line += winStyle.Render(fmt.Sprintf("\nPlayer %d empties their hand", info.Player))
	}
	return line + fmt.Sprintf("\nReward: %.0f", res.Reward)
}

func formatPlayed(info game.StepInfo) string {
	if len(info.Played) == 0 {
		return "nothing"
	}
	s := ""
	for i, c := range info.Played {
		if i > 0 {
			s += " "
		}
		s += c.Symbol()
	}
	return s
}
