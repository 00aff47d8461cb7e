package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play video poker in the terminal"`
	Serve   ServeCmd         `cmd:"" help:"Run the WebSocket session server"`
	Odds    OddsCmd          `cmd:"" help:"Estimate return-to-player by simulation"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("trashpoker"),
		kong.Description("Five-card draw video poker with a powerup economy"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
