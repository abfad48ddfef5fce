package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the camarero server"`
	Client   ClientCmd        `cmd:"" help:"Connect to a server as an interactive client"`
	Simulate SimulateCmd      `cmd:"" help:"Run seeded self-play games"`
	Menu     MenuCmd          `cmd:"" help:"Print the menu catalog"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("camarero"),
		kong.Description("Game server for Il Camarero, the waiter's memory game"),
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
