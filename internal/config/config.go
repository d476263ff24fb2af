// Package config loads the liarsdeck HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/liarsdeck/internal/bot"
	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/game"
)

// Config is the fully resolved configuration
type Config struct {
	Environment Environment
	Deck        Deck
	Rewards     Rewards
	Evaluation  Evaluation
	Server      Server
}

// Environment holds the rules of play and the log level
type Environment struct {
	NumPlayers           int
	HandSize             int
	MaxDeclare           int
	Chambers             int
	LethalChambers       int
	Bullets              int
	ChallengeProbability float64
	ChallengePolicy      string
	LogLevel             string
}

// Deck holds the count of each card kind
type Deck struct {
	King  int
	Queen int
	Ace   int
	Joker int
}

// Rewards holds the terminal and survival rewards
type Rewards struct {
	Win     float64
	Penalty float64
}

// Evaluation configures the evaluation driver
type Evaluation struct {
	Episodes int
	Bot      string
	Opponent string // Empty means self-play
	Seed     int64
	Workers  int
	MaxSteps int
	Report   string
}

// Server configures the remote environment server
type Server struct {
	Address string
	Port    int
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	g := game.DefaultConfig()
	return &Config{
		Environment: Environment{
			NumPlayers:           g.NumPlayers,
			HandSize:             g.HandSize,
			MaxDeclare:           g.MaxDeclare,
			Chambers:             g.Chambers,
			LethalChambers:       g.LethalChambers,
			Bullets:              g.Bullets,
			ChallengeProbability: g.ChallengeProbability,
			ChallengePolicy:      game.PolicyFixed,
			LogLevel:             "info",
		},
		Deck: Deck{
			King:  g.Deck[deck.King],
			Queen: g.Deck[deck.Queen],
			Ace:   g.Deck[deck.Ace],
			Joker: g.Deck[deck.Joker],
		},
		Rewards: Rewards{
			Win:     g.WinReward,
			Penalty: g.PenaltyReward,
		},
		Evaluation: Evaluation{
			Episodes: 100,
			Bot:      bot.Honest,
			Seed:     0,
			Workers:  1,
			MaxSteps: 1000,
		},
		Server: Server{
			Address: "localhost",
			Port:    8765,
		},
	}
}

// Load reads the configuration from an HCL file. A missing file yields the
// defaults. Attributes absent from the file keep their default values.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source over the defaults and validates the result
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	raw.apply(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.GameConfig().Validate(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	e := c.Evaluation
	if e.Episodes < 1 {
		return fmt.Errorf("evaluation: episodes must be positive, got %d", e.Episodes)
	}
	if !slices.Contains(bot.Names(), e.Bot) {
		return fmt.Errorf("evaluation: unknown bot %q (want one of %v)", e.Bot, bot.Names())
	}
	if e.Opponent != "" && !slices.Contains(bot.Names(), e.Opponent) {
		return fmt.Errorf("evaluation: unknown opponent %q (want one of %v)", e.Opponent, bot.Names())
	}
	if e.Workers < 1 {
		return fmt.Errorf("evaluation: workers must be positive, got %d", e.Workers)
	}
	if e.MaxSteps < 1 {
		return fmt.Errorf("evaluation: max steps must be positive, got %d", e.MaxSteps)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port: %d", c.Server.Port)
	}
	return nil
}

// GameConfig returns the rules of play
func (c *Config) GameConfig() game.Config {
	return game.Config{
		NumPlayers:           c.Environment.NumPlayers,
		HandSize:             c.Environment.HandSize,
		MaxDeclare:           c.Environment.MaxDeclare,
		Deck:                 deck.Composition{c.Deck.King, c.Deck.Queen, c.Deck.Ace, c.Deck.Joker},
		Chambers:             c.Environment.Chambers,
		LethalChambers:       c.Environment.LethalChambers,
		Bullets:              c.Environment.Bullets,
		ChallengeProbability: c.Environment.ChallengeProbability,
		WinReward:            c.Rewards.Win,
		PenaltyReward:        c.Rewards.Penalty,
	}
}

// Policy returns the configured challenge policy
func (c *Config) Policy() (game.ChallengePolicy, error) {
	return game.NewChallengePolicy(c.Environment.ChallengePolicy, c.Environment.ChallengeProbability)
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Environment.LogLevel)
}

// ServerAddress returns the host:port the server listens on
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
