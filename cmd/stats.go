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
	"github.com/opat/opat/stats"
)

// returns loads return series either from a returns table or from the ledger.
type returns struct {
	inputs
	file string
}

func (r *returns) setFlags(f *flag.FlagSet) {
	r.inputs.setFlags(f)
	f.StringVar(&r.file, "returns", "", "Path to a CSV table of daily returns, one column per series. If not set, the returns are computed from the ledger.")
}

func (r *returns) series(ctx context.Context) ([]stats.Series, error) {
	if r.file != "" {
		return decodeFile(r.file, stats.ReadCSV)
	}
	book, err := r.book(ctx, true)
	if err != nil {
		return nil, err
	}
	n, h, err := book.NAV()
	if err != nil {
		return nil, err
	}
	logReport(r.log, &opat.Report{Skipped: h.Skipped, Ambiguous: h.Ambiguous, Missing: n.Missing})
	return []stats.Series{{Name: "Portfolio", Returns: n.Returns()}}, nil
}

type statsCmd struct {
	returns
	output

	period   string
	from, to string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display return statistics" }
func (*statsCmd) Usage() string {
	return `opat stats (-returns <file> | -trades <file> -flows <file> -prices <file>) [-p <period>] [-from <date>] [-to <date>]

  Displays, for every return series, the compounded and the annualized
  return, the annualized volatility and the final VAMI. With -p, the
  compounded return of every week, month, quarter or year is displayed too.

Usage Examples:
$ opat stats -returns returns.csv -p month
$ opat stats -trades trades.csv -flows flows.csv -prices prices.csv -from 2025-01-01

`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	c.returns.setFlags(f)
	c.output.setFlags(f, c.cfg, false)
	f.StringVar(&c.period, "p", "", "Also display the returns of every period (week, month, quarter, year).")
	f.StringVar(&c.from, "from", "", "First day of the statistics. Defaults to the first observation.")
	f.StringVar(&c.to, "to", "", "Last day of the statistics. Defaults to the last observation.")
}

func (c *statsCmd) dateRange() (rng date.Range, err error) {
	if c.from != "" {
		if rng.From, err = date.Parse(c.from); err != nil {
			return rng, fmt.Errorf("invalid -from: %w", err)
		}
	}
	if c.to != "" {
		if rng.To, err = date.Parse(c.to); err != nil {
			return rng, fmt.Errorf("invalid -to: %w", err)
		}
	}
	return rng, nil
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rng, err := c.dateRange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var period date.Period
	if c.period != "" {
		if period, err = date.ParsePeriod(c.period); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	series, err := c.series(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading returns: %v\n", err)
		return subcommands.ExitFailure
	}

	summaries := make([]stats.Summary, 0, len(series))
	for _, s := range series {
		summaries = append(summaries, stats.Summarize(s.Name, s.Returns, rng, c.cfg.VAMIBase))
	}
	md := renderer.StatsMarkdown(summaries)
	if c.period != "" {
		md += renderer.PeriodicMarkdown(series, period)
	}
	if err := c.print(md); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing statistics: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
