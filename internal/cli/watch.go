package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/blog-comments/internal/site"
)

func newWatchCmd() *cobra.Command {
	var src, out string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render pages as the site generator writes them",
		Long:  "Render every page once, then watch the generated site and re-render each page the generator rewrites.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, src, out)
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "generated site directory (default: config or ./generated)")
	cmd.Flags().StringVar(&out, "out", "", "directory for rendered pages (default: in place)")

	return cmd
}

func runWatch(cmd *cobra.Command, src, out string) error {
	srcDir := getSiteDir(src)
	outDir := getOutDir(out, srcDir)
	r := newRenderer(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := r.RenderSite(ctx, srcDir, outDir); err != nil {
		slog.Error("initial render", "error", err)
	}

	w, err := site.NewWatcher(r, srcDir, outDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			slog.Warn("closing watcher", "error", cerr)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", srcDir)
	return w.Run(ctx)
}
