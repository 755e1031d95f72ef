package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mbeukers/girohist"
)

type resolveCmd struct{}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "list the candidate listings of an ISIN" }
func (*resolveCmd) Usage() string {
	return `giro resolve <isin> [<isin>...]

  Queries the OpenFIGI mapping API for the tradable listings of each ISIN.
  An ISIN usually trades on several exchanges; pick one candidate per asset
  and record it in the listing file (see -mapping-file).
`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {}

func (c *resolveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	isins := f.Args()
	if len(isins) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ISIN is required")
		return subcommands.ExitUsageError
	}

	resolver := girohist.NewOpenFIGIResolver()
	var b strings.Builder
	for _, isin := range isins {
		listings, err := resolver.Resolve(ctx, isin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", isin, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(&b, "# %s\n\n", isin)
		fmt.Fprintf(&b, "| Ticker | Exchange |\n")
		fmt.Fprintf(&b, "|---|---|\n")
		for _, l := range listings {
			fmt.Fprintf(&b, "| %s | %s |\n", l.Ticker, l.Exchange)
		}
		fmt.Fprintln(&b)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
