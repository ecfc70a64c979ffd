package cli

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xeij/tellme/internal/web"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reader over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		addr := cfg.Server.Addr
		if flagServeAddr != "" {
			addr = flagServeAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := web.NewServer(svc, log).ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
