package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/opat/opat"
	"github.com/opat/opat/renderer"
)

type pnlCmd struct {
	inputs
	output
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display the daily profit and loss of every position" }
func (*pnlCmd) Usage() string {
	return `opat pnl -trades <file> (-prices <file> | -prices-dir <dir>) [-splits <file>] [-asof <date>] [-csv]

  Computes the daily profit and loss of every ticker, split between the
  holding component (price move and dividends on the position carried
  overnight) and the trading component (trades of the day marked to the
  close). Days without a usable price are reported as n/a.

Usage Examples:
$ opat pnl -trades trades.csv -prices prices.csv
$ opat pnl -trades trades.csv -prices-dir ./quotes -csv > pnl.csv

`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	c.inputs.setFlags(f)
	c.output.setFlags(f, c.cfg, true)
}

func (c *pnlCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := c.book(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inputs: %v\n", err)
		return subcommands.ExitFailure
	}
	p, h, err := book.PnL()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing pnl: %v\n", err)
		return subcommands.ExitFailure
	}
	// trades skipped by the pnl are already skipped by the holdings.
	logReport(c.log, &opat.Report{Skipped: h.Skipped, Ambiguous: h.Ambiguous, Missing: p.Missing})

	if c.csv {
		err = opat.EncodePnL(os.Stdout, p)
	} else {
		err = c.print(renderer.PnLMarkdown(p, c.currency))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing pnl: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
