package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

// output holds the formatting flags of table commands.
type output struct {
	currency string
	csv      bool
	raw      bool
}

func (o *output) setFlags(f *flag.FlagSet, cfg *Config, withCSV bool) {
	f.StringVar(&o.currency, "c", cfg.Currency, "Currency used to format amounts.")
	f.BoolVar(&o.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal.")
	if withCSV {
		f.BoolVar(&o.csv, "csv", false, "Print the table as CSV.")
	}
}

// print writes the markdown document to stdout.
func (o *output) print(md string) error {
	return printMarkdown(os.Stdout, md, o.raw)
}

// printMarkdown renders md for the terminal, or writes it as is if raw.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("could not create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("could not render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
