package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/blog-comments/internal/page"
)

func newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <page.html>",
		Short: "Load comments into one page",
		Long:  "Run the comment widget over a page and print the rendered page, or write it with --output.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the rendered page here instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, path, output string) error {
	doc, err := page.ParseFile(path)
	if err != nil {
		return err
	}

	_, cfgErr := newWidget(cmd.ErrOrStderr()).Run(cmd.Context(), doc.Root)

	if output != "" {
		if err := doc.WriteFile(output); err != nil {
			return err
		}
	} else if err := doc.Render(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	if cfgErr != nil {
		return fmt.Errorf("%s: %w", path, cfgErr)
	}
	return nil
}
