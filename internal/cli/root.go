// Package cli defines the cobra command tree for blog-comments.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/blog-comments/internal/client"
	"github.com/evcraddock/blog-comments/internal/logging"
	"github.com/evcraddock/blog-comments/internal/widget"
)

var (
	flagFormat  string
	flagAPI     string
	flagDev     bool
	flagLogFile string

	logCloser io.Closer
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "blog-comments",
		Short: "Load and post blog comments on generated pages",
		Long: "Runs the blog comment widget over the pages of a generated static site: " +
			"loads each post's comments from the comments API, renders them into the page, " +
			"and submits new comments.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logCloser = logging.Setup(logging.Options{Dev: flagDev, File: getLogFile()})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagAPI, "api", "", "comments API base URL (default: config or http://localhost:8080)")
	root.PersistentFlags().BoolVar(&flagDev, "dev", false, "human-readable debug logging")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to a rotated file instead of stderr")

	root.AddCommand(
		newRenderCmd(),
		newRenderSiteCmd(),
		newWatchCmd(),
		newCommentsCmd(),
		newPostCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the comments API.
func newAPIClient() *client.Client {
	return client.New(getAPIBase(), client.WithTransport(logging.NewTransport))
}

// newWidget creates a widget whose alerts are printed to w.
func newWidget(w io.Writer) *widget.Widget {
	return widget.New(newAPIClient(), widget.WithAlerter(widget.AlertFunc(func(ctx context.Context, msg string) {
		fmt.Fprintf(w, "Alert: %s\n", msg)
	})))
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
