package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/opat/opat/renderer"
)

type chartCmd struct {
	returns

	vami   bool
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "export cumulative returns as chart series" }
func (*chartCmd) Usage() string {
	return `opat chart (-returns <file> | -trades <file> -flows <file> -prices <file>) [-vami] [-o <file>]

  Exports, for every return series, the cumulative return (or the VAMI with
  -vami) as JSON chart series:

    [{"name": "Portfolio", "data": [[1735689600000, 0.01], ...]}]

  Timestamps are milliseconds since the Unix epoch at midnight UTC.

Usage Examples:
$ opat chart -returns returns.csv -vami -o chart.json

`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.returns.setFlags(f)
	f.BoolVar(&c.vami, "vami", false, "Export the VAMI instead of the cumulative return. The base is OPAT_VAMI_BASE.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	series, err := c.series(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading returns: %v\n", err)
		return subcommands.ExitFailure
	}
	var base float64
	if c.vami {
		base = c.cfg.VAMIBase
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := renderer.WriteChart(w, renderer.Chart(series, base)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
