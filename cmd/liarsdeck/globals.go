package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/config"
	"github.com/muesli/termenv"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"liarsdeck.hcl" help:"Path to HCL configuration file"`
	Debug    bool   `help:"Enable debug logging"`
	LogLevel string `help:"Log level (overrides config)"`
	NoColor  bool   `help:"Disable colored output"`
}

// load reads the config file and merges the overrides over it
func (g *Globals) load(overrides config.Overrides) (*config.Config, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", g.Config, err)
	}
	if g.LogLevel != "" {
		overrides.LogLevel = &g.LogLevel
	}
	if err := overrides.Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the stderr logger at the configured level
func (g *Globals) logger(cfg *config.Config) *log.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = log.InfoLevel
	}
	if g.Debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	if g.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}
