package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "", "Path to the YAML configuration (defaults to $CRYPTOWATCH_CONFIG or config/config.yml).")
	logLevel   = flag.String("log", "warn", "Log level written to stderr (debug, info, warn, error).")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range Commands {
		commander.Register(c, "wallet")
	}
	commander.Register(&reportCmd{}, "")
	commander.Register(&chainsCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
