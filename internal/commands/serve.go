package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balkashynov/goalie/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Run the goalie JSON API until interrupted, then shut down gracefully.",
	Args:  cobra.NoArgs,
	RunE: withServer(func(cmd *cobra.Command, args []string, a *app) error {
		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := api.NewServer(api.Services{
			DB:     a.db,
			Auth:   a.auth,
			Goals:  a.goals,
			Tokens: a.tokens,
		}, api.Options{
			CORSOrigins: a.cfg.Server.CORSOrigins,
			Logger:      a.log,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- srv.Start(addr) }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		a.log.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errc
	}),
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}
