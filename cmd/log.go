package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// logCmd holds the flags for the 'log' subcommand.
type logCmd struct {
	asset string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the ledger transactions" }
func (*logCmd) Usage() string {
	return `giro log [-s <isin>]

  Lists the validated transactions of the ledger in chronological order.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "s", "", "Only list trades of this ISIN")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	txs := ledger.Transactions()
	if c.asset != "" {
		txs = ledger.Trades(c.asset)
	}
	for tx := range txs {
		fmt.Fprintf(&b, "- %s\n", tx)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
