package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/mbeukers/girohist/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion runs first; in completion mode it prints and exits.
	completion().Complete("giro")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	files := predict.Files("*")
	dates := predict.Something
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file":  files,
			"mapping-file": files,
			"currency":     predict.Set{"EUR", "USD", "GBP", "CHF"},
		},
		Sub: map[string]*complete.Command{
			"rebuild": {Flags: map[string]complete.Predictor{"d": dates, "o": files}},
			"returns": {Flags: map[string]complete.Predictor{"d": dates, "o": files}},
			"summary": {Flags: map[string]complete.Predictor{"d": dates}},
			"log":     {Flags: map[string]complete.Predictor{"s": predict.Something}},
			"resolve": {},
			"fmt":     {},
			"topic":   {Args: predict.Set{"readme", "ledger", "returns"}},
		},
	}
}
