package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mbeukers/girohist"
)

// rebuildCmd holds the flags for the 'rebuild' subcommand.
type rebuildCmd struct {
	date       string
	outputFile string
}

func (*rebuildCmd) Name() string     { return "rebuild" }
func (*rebuildCmd) Synopsis() string { return "reconstruct the daily portfolio history" }
func (*rebuildCmd) Usage() string {
	return `giro rebuild [-d <date>] [-o <file>]

  Reconstructs the dense daily snapshot history of the ledger, one row per
  (date, asset) from the first transaction to the last priced date, and
  writes it as CSV.
`
}

func (c *rebuildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Last date to fetch prices for (defaults to today)")
	f.StringVar(&c.outputFile, "o", "", "Write CSV to this file instead of stdout")
}

func (c *rebuildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := reconstruct(ctx, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := os.Stdout
	if c.outputFile != "" {
		out, err = os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}
	if err := girohist.WriteSnapshots(out, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshots: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
