package main

import (
	"fmt"

	"github.com/lox/liarsdeck/internal/config"
	"github.com/lox/liarsdeck/internal/server"
)

// ServeCmd runs the remote environment server
type ServeCmd struct {
	Address         *string `short:"a" help:"Address to bind to (overrides config)"`
	Port            *int    `short:"p" help:"Port to listen on (overrides config)"`
	Players         *int    `help:"Number of players (overrides config)"`
	ChallengePolicy *string `help:"Challenge policy: fixed, always, never, counting (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load(config.Overrides{
		Address:         c.Address,
		Port:            c.Port,
		NumPlayers:      c.Players,
		ChallengePolicy: c.ChallengePolicy,
	})
	if err != nil {
		return err
	}
	logger := g.logger(cfg)

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	srv, err := server.NewServer(cfg.ServerAddress(), cfg.GameConfig(), logger, server.WithChallengePolicy(policy))
	if err != nil {
		return err
	}

	logger.Info("Starting Liar's Deck server",
		"address", cfg.ServerAddress(),
		"players", cfg.Environment.NumPlayers,
		"policy", cfg.Environment.ChallengePolicy,
	)
	ctx := setupSignalHandler(logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
