package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/folio/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the templates and their editors over HTTP",
		Long: `serve starts the HTTP server. Templates are served at /t/<kind>, their
editors at /t/<kind>/edit and the JSON API under /api/templates. The server
stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Session.GeneratedSecret {
				a.logger.Warn("session.secret not set, using a random one: editor sessions will not survive a restart")
			}

			srv, err := server.New(a.cfg, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				a.logger.Error("server error", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
	}

	cmd.Flags().Int("port", 8080, "port to listen on")
	a.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}
