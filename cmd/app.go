// Package cmd implements the CLI application to reconstruct a portfolio
// history and report its performance.
package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mbeukers/girohist"
)

// Register the subcommands.
// A main package calls Register(), then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&rebuildCmd{}, "reconstruction")
	c.Register(&returnsCmd{}, "reconstruction")
	c.Register(&summaryCmd{}, "reporting")
	c.Register(&logCmd{}, "reporting")
	c.Register(&resolveCmd{}, "securities")
	c.Register(&fmtCmd{}, "ledger")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var mappingFile = flag.String("mapping-file", "listings.json", "Path to the asset listing file mapping each ISIN to its selected (ticker, currency)")
var defaultCurrency = flag.String("currency", "EUR", "Reporting currency for valuations and returns")

// DecodeLedgerFile reads and validates the app ledger file.
func DecodeLedgerFile() (*girohist.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return girohist.DecodeLedger(f)
}

// DecodeMappingFile reads the asset listing file: a JSON object mapping each
// ISIN to its caller-selected listing. The 'resolve' command helps fill it.
func DecodeMappingFile() (map[string]girohist.Listing, error) {
	content, err := os.ReadFile(*mappingFile)
	if err != nil {
		return nil, fmt.Errorf("opening mapping %q: %w", *mappingFile, err)
	}
	mapping := make(map[string]girohist.Listing)
	if err := json.Unmarshal(content, &mapping); err != nil {
		return nil, fmt.Errorf("reading mapping %q: %w", *mappingFile, err)
	}
	return mapping, nil
}

// reconstruct runs a full reconstruction of the app ledger with the live
// provider, capped at 'until' when non-empty.
func reconstruct(ctx context.Context, until string) (*girohist.Result, error) {
	ledger, err := DecodeLedgerFile()
	if err != nil {
		return nil, err
	}
	mapping, err := DecodeMappingFile()
	if err != nil {
		return nil, err
	}
	resolver := girohist.NewResolver(girohist.NewYahooProvider(), nil)
	builder := girohist.NewBuilder(ledger, resolver, mapping, *defaultCurrency)
	if until != "" {
		on, err := girohist.ParseDate(until)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		builder.Until(on)
	}
	result, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some assets were excluded:\n%v\n", err)
	}
	return result, nil
}
