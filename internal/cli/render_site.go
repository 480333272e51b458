package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/blog-comments/internal/site"
)

func newRenderSiteCmd() *cobra.Command {
	var src, out string

	cmd := &cobra.Command{
		Use:   "render-site",
		Short: "Load comments into every generated page",
		Long:  "Run the comment widget over every page of the generated site. Pages are rendered in place unless --out is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenderSite(cmd, src, out)
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "generated site directory (default: config or ./generated)")
	cmd.Flags().StringVar(&out, "out", "", "directory for rendered pages (default: in place)")

	return cmd
}

// newRenderer builds the site renderer the render-site, watch and serve
// commands share.
func newRenderer(cmd *cobra.Command) *site.Renderer {
	return &site.Renderer{
		Widget:   newWidget(cmd.ErrOrStderr()),
		Patterns: getPatterns(),
	}
}

func runRenderSite(cmd *cobra.Command, src, out string) error {
	srcDir := getSiteDir(src)
	outDir := getOutDir(out, srcDir)

	results, err := newRenderer(cmd).RenderSite(cmd.Context(), srcDir, outDir)

	w := cmd.OutOrStdout()
	if isJSON() {
		if perr := printJSON(w, results); perr != nil {
			return perr
		}
	} else if perr := printResults(w, results); perr != nil {
		return perr
	}
	return err
}
