package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcus/notepadzone/internal/app"
	"github.com/marcus/notepadzone/internal/httpapi"
	"github.com/marcus/notepadzone/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the note collection over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, backend, cleanup, err := setup(ctx, logging.Options{Stderr: true})
		if err != nil {
			return err
		}
		defer cleanup()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		handlers := httpapi.NewHandlers(backend, app.DeleteSecret, logger)
		defer handlers.Close()

		return httpapi.ListenAndServe(ctx, addr, handlers.Routes(), logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
