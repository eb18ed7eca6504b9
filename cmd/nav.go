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

type navCmd struct {
	inputs
	output
}

func (*navCmd) Name() string     { return "nav" }
func (*navCmd) Synopsis() string { return "display the daily net asset value of the portfolio" }
func (*navCmd) Usage() string {
	return `opat nav -trades <file> -flows <file> (-prices <file> | -prices-dir <dir>) [-asof <date>] [-csv]

  Computes the daily net asset value of the portfolio: the cash balance,
  fed by the external flows, the trades and the dividends, and the market
  value of every position. The markdown output also shows the daily return
  of the portfolio.

Usage Examples:
$ opat nav -trades trades.csv -flows flows.csv -prices prices.csv

`
}

func (c *navCmd) SetFlags(f *flag.FlagSet) {
	c.inputs.setFlags(f)
	c.output.setFlags(f, c.cfg, true)
}

func (c *navCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := c.book(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inputs: %v\n", err)
		return subcommands.ExitFailure
	}
	n, h, err := book.NAV()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing nav: %v\n", err)
		return subcommands.ExitFailure
	}
	logReport(c.log, &opat.Report{Skipped: h.Skipped, Ambiguous: h.Ambiguous, Missing: n.Missing})

	if c.csv {
		err = opat.EncodeNAV(os.Stdout, n)
	} else {
		err = c.print(renderer.NAVMarkdown(n, c.currency))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing nav: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
