package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/opat/opat/docs"
)

type topicCmd struct {
	raw bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `opat topic [<topic>...]

  Shows the documentation of the given topics, or the list of topics.
  Use "*" to show every topic.

Usage Examples:
$ opat topic inputs pnl

`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(os.Stdout, doc, c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing doc: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
