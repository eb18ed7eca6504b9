package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/opat/opat"
	"github.com/opat/opat/date"
	"github.com/opat/opat/renderer"
)

type holdingsCmd struct {
	inputs
	output
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the positions held at the close of a day" }
func (*holdingsCmd) Usage() string {
	return `opat holdings -trades <file> [-splits <file>] [-prices <file>] [-asof <date>] [-csv]

  Reconstructs the daily positions from the trades and the splits, and
  displays the quantity and the average cost of every position held on the
  -asof date. With -csv, the whole daily table is printed instead.

Usage Examples:
$ opat holdings -trades trades.csv -splits splits.csv -asof 2025-06-30

`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	c.inputs.setFlags(f)
	c.output.setFlags(f, c.cfg, true)
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := c.book(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inputs: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := book.Holdings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	logReport(c.log, &h.Report)

	if c.csv {
		err = opat.EncodeHoldings(os.Stdout, h)
	} else {
		err = c.print(renderer.HoldingsMarkdown(h, date.Date{}, c.currency))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
