package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evcraddock/blog-comments/internal/comment"
	"github.com/evcraddock/blog-comments/internal/site"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCommentList prints comments in text format, in API order.
func printCommentList(w io.Writer, comments []comment.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, comment.EmptyMessage)
		return
	}
	for i, c := range comments {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "  %s\n", c.Author)
		fmt.Fprintf(w, "  %s\n", c.Text)
	}
}

// printResults prints rendered pages as a table.
func printResults(w io.Writer, results []site.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No pages found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "PAGE\tSECTIONS\tFAILED\tWRITTEN"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "----\t--------\t------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, r := range results {
		written := "no"
		if r.Written {
			written = "yes"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Page, r.Sections, r.Failed, written); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return tw.Flush()
}
