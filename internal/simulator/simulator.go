// Package simulator evaluates scripted bots by playing many seeded episodes
// in parallel and aggregating the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/liarsdeck/internal/bot"
	"github.com/lox/liarsdeck/internal/fileutil"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/gameid"
	"github.com/lox/liarsdeck/internal/randutil"
	"github.com/lox/liarsdeck/internal/statistics"
	"golang.org/x/sync/errgroup"
)

const defaultMaxSteps = 1000

// ErrMaxSteps is returned when an episode fails to terminate in time.
var ErrMaxSteps = errors.New("episode exceeded max steps")

// Config holds configuration for an evaluation run
type Config struct {
	Episodes int
	Bot      string
	Opponent string // Plays every seat but 0 when set; otherwise Bot plays all seats
	Seed     int64  // Episode i is played with seed Seed+i
	Workers  int
	MaxSteps int
	Env      game.Config

	// Policy overrides the environment's default challenge policy. It is
	// shared by every worker and must be safe for concurrent use.
	Policy game.ChallengePolicy

	// Progress, when set, is called after every ProgressEvery completed
	// episodes.
	ProgressEvery int
	Progress      func(done, total int)

	Logger *log.Logger
	Clock  quartz.Clock
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.MaxSteps < 1 {
		c.MaxSteps = defaultMaxSteps
	}
	if c.Bot == "" {
		c.Bot = bot.Honest
	}
	for _, name := range []string{c.Bot, c.Opponent} {
		if name == "" {
			continue
		}
		if _, err := bot.New(name, c.Env.ActionSpace(), randutil.New(0), nil); err != nil {
			return err
		}
	}
	return c.Env.Validate()
}

// Summary is the outcome of a run
type Summary struct {
	RunID    string
	Bot      string
	Opponent string
	Seed     int64
	Workers  int
	Started  time.Time
	Duration time.Duration
	Stats    *statistics.Statistics
	Results  []statistics.EpisodeResult
}

// Simulator runs evaluation episodes
type Simulator struct {
	config Config
	logger *log.Logger
	clock  quartz.Clock
	ids    *gameid.Generator
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulator config: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Simulator{
		config: config,
		logger: logger.WithPrefix("simulator"),
		clock:  clock,
		ids:    gameid.NewGenerator(clock, randutil.New(config.Seed)),
	}, nil
}

// Run plays every episode and returns the aggregate. Results are stored by
// episode index, so the summary does not depend on the worker count.
func (s *Simulator) Run(ctx context.Context) (*Summary, error) {
	cfg := s.config
	start := s.clock.Now()
	results := make([]statistics.EpisodeResult, cfg.Episodes)

	s.logger.Info("Starting evaluation", "episodes", cfg.Episodes, "bot", cfg.Bot, "opponent", cfg.Opponent, "seed", cfg.Seed, "workers", cfg.Workers)

	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Episodes; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var (
		mu   sync.Mutex
		done int
	)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			env, err := s.newEnvironment()
			if err != nil {
				return err
			}
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := s.playEpisode(env, i)
				if err != nil {
					return err
				}
				results[i] = r

				mu.Lock()
				done++
				s.reportProgress(done)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for i := range results {
		results[i].ID = s.ids.New(gameid.Episode)
		stats.Add(results[i])
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	summary := &Summary{
		RunID:    s.ids.New(gameid.Run),
		Bot:      cfg.Bot,
		Opponent: cfg.Opponent,
		Seed:     cfg.Seed,
		Workers:  cfg.Workers,
		Started:  start,
		Duration: s.clock.Since(start),
		Stats:    stats,
		Results:  results,
	}
	s.logger.Info("Evaluation complete", "seat0_win_rate", stats.SeatWinRate(0), "win_reward_rate", stats.WinRate(), "mean_reward", stats.Mean(), "duration", summary.Duration)
	return summary, nil
}

func (s *Simulator) reportProgress(done int) {
	every := s.config.ProgressEvery
	if every <= 0 || (done%every != 0 && done != s.config.Episodes) {
		return
	}
	s.logger.Debug("Progress", "done", done, "total", s.config.Episodes)
	if s.config.Progress != nil {
		s.config.Progress(done, s.config.Episodes)
	}
}

func (s *Simulator) newEnvironment() (*game.Environment, error) {
	opts := []game.Option{game.WithLogger(s.logger), game.WithSeed(s.config.Seed)}
	if s.config.Policy != nil {
		opts = append(opts, game.WithChallengePolicy(s.config.Policy))
	}
	return game.New(s.config.Env, opts...)
}

// seatBots returns the bot for each seat of an episode
func (s *Simulator) seatBots(space game.ActionSpace, seed int64) ([]bot.Bot, error) {
	seats := make([]bot.Bot, s.config.Env.NumPlayers)
	for i := range seats {
		name := s.config.Bot
		if i > 0 && s.config.Opponent != "" {
			name = s.config.Opponent
		}
		b, err := bot.New(name, space, randutil.New(bot.SeatSeed(seed, i)), s.logger)
		if err != nil {
			return nil, err
		}
		seats[i] = b
	}
	return seats, nil
}

// playEpisode plays episode idx to completion on env
func (s *Simulator) playEpisode(env *game.Environment, idx int) (statistics.EpisodeResult, error) {
	seed := s.config.Seed + int64(idx)
	seats, err := s.seatBots(env.ActionSpace(), seed)
	if err != nil {
		return statistics.EpisodeResult{}, err
	}

	result := statistics.EpisodeResult{Index: idx, Seed: seed, Winner: -1}
	obs := env.Reset(&seed)

	for !env.Done() {
		if result.Steps >= s.config.MaxSteps {
			return result, fmt.Errorf("episode %d (seed %d): %w (%d)", idx, seed, ErrMaxSteps, s.config.MaxSteps)
		}

		step, err := env.Step(seats[obs.Player].Act(obs))
		if err != nil {
			return result, fmt.Errorf("episode %d (seed %d) step %d: %w", idx, seed, result.Steps, err)
		}

		result.Steps++
		result.TotalReward += step.Reward
		if step.Info.Challenged {
			result.Challenges++
		}
		if step.Info.Bluff {
			result.Bluffs++
			if step.Info.Challenged {
				result.CaughtBluffs++
			}
		}
		if step.Info.Outcome == game.OutcomeSurvived {
			result.Survivals++
		}

		if step.Info.Outcome.Terminal() {
			result.FinalReward = step.Reward
			result.Won = step.Reward == s.config.Env.WinReward
			result.Outcome = step.Info.Outcome.String()
			result.BulletsRemaining = step.Info.BulletsRemaining
		}
		obs = step.Observation
	}

	if winner, ok := env.Winner(); ok {
		result.Winner = winner
	}
	return result, nil
}

// Report is the JSON form of a Summary
type Report struct {
	RunID       string                     `json:"run_id"`
	Bot         string                     `json:"bot"`
	Opponent    string                     `json:"opponent,omitempty"`
	Seed        int64                      `json:"seed"`
	Workers     int                        `json:"workers"`
	Started     time.Time                  `json:"started"`
	DurationMS  int64                      `json:"duration_ms"`
	WinRate     float64                    `json:"win_rate"`
	SeatWins    map[int]float64            `json:"seat_win_rates"`
	MeanReward  float64                    `json:"mean_reward"`
	StdDev      float64                    `json:"std_dev"`
	CI95        [2]float64                 `json:"ci95"`
	MeanSteps   float64                    `json:"mean_steps"`
	MedianSteps float64                    `json:"median_steps"`
	P95Steps    float64                    `json:"p95_steps"`
	Stats       *statistics.Statistics     `json:"stats"`
	Episodes    []statistics.EpisodeResult `json:"episodes,omitempty"`
}

// Report flattens the summary for serialization
func (s *Summary) Report(includeEpisodes bool) Report {
	low, high := s.Stats.ConfidenceInterval95()
	r := Report{
		RunID:       s.RunID,
		Bot:         s.Bot,
		Opponent:    s.Opponent,
		Seed:        s.Seed,
		Workers:     s.Workers,
		Started:     s.Started,
		DurationMS:  s.Duration.Milliseconds(),
		WinRate:     s.Stats.WinRate(),
		SeatWins:    make(map[int]float64),
		MeanReward:  s.Stats.Mean(),
		StdDev:      s.Stats.StdDev(),
		CI95:        [2]float64{low, high},
		MeanSteps:   s.Stats.MeanSteps(),
		MedianSteps: s.Stats.MedianSteps(),
		P95Steps:    s.Stats.StepsPercentile(0.95),
		Stats:       s.Stats,
	}
	for seat := range s.Stats.Winners {
		r.SeatWins[seat] = s.Stats.SeatWinRate(seat)
	}
	if includeEpisodes {
		r.Episodes = s.Results
	}
	return r
}

// WriteReport writes the summary as JSON, atomically
func (s *Summary) WriteReport(path string, includeEpisodes bool) error {
	if err := fileutil.WriteJSONAtomic(path, s.Report(includeEpisodes)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
