package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/opat/opat"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// renderReport prints the problems found while building a table, if any.
func renderReport(w io.Writer, r *opat.Report) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "## Warnings\n\n")
		for _, err := range r.Skipped {
			fmt.Fprintf(w, "- skipped: %v\n", err)
		}
		for _, err := range r.Ambiguous {
			fmt.Fprintf(w, "- %v\n", err)
		}
		for _, err := range r.Missing {
			fmt.Fprintf(w, "- %v\n", err)
		}
		fmt.Fprintln(w)
		return !r.Empty()
	})
}
