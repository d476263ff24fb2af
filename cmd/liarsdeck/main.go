package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate a scripted bot over many episodes"`
	Play    PlayCmd          `cmd:"" help:"Play and print a single episode"`
	Serve   ServeCmd         `cmd:"" help:"Serve environments over WebSocket"`
	Actions ActionsCmd       `cmd:"" help:"Print the action table"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("liarsdeck"),
		kong.Description("Liar's Deck reinforcement learning environment"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
