package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/blog-comments/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		src  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site with live comments",
		Long:  "Serve the generated site over HTTP. Each page is run through the comment widget when requested, and comment forms post back to the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := newAPIClient()
			slog.Info("starting server", "site", getSiteDir(src), "api", api.BaseURL(), "port", port)
			return web.NewServer(getSiteDir(src), api).ListenAndServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 3000, "port to listen on")
	cmd.Flags().StringVar(&src, "src", "", "generated site directory (default: config or ./generated)")

	return cmd
}
