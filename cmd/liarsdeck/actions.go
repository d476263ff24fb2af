package main

import (
	"fmt"
	"strings"

	"github.com/lox/liarsdeck/internal/config"
	"github.com/lox/liarsdeck/internal/game"
)

// ActionsCmd prints the action encoding
type ActionsCmd struct{}

func (c *ActionsCmd) Run(g *Globals) error {
	cfg, err := g.load(config.Overrides{})
	if err != nil {
		return err
	}
	fmt.Println(formatActions(cfg.GameConfig().ActionSpace()))
	return nil
}

func formatActions(space game.ActionSpace) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("%d actions", space.Size()))}
	for _, a := range space.All() {
		decl, err := space.Decode(a)
		if err != nil {
			continue
		}
		lines = append(lines, row(fmt.Sprintf("%d", a), decl.String()))
	}
	return strings.Join(lines, "\n")
}
