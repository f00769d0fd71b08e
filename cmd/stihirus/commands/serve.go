package commands

import (
	"log/slog"

	"stihirus-reader/internal/telemetry"
	"stihirus-reader/lib/serviceutil"

	"github.com/spf13/cobra"
)

var listenAddr string

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "The address to listen on, defaults to the configured one.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--listen <addr>]",
	Short: "Serves every query as a JSON endpoint over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := config.Listen
		if listenAddr != "" {
			addr = listenAddr
		}
		slog.Info("serving stihirus reader", "addr", addr, "site", config.Scraper.BaseUrl)
		telemetry.InstrumentPerfStats(cmd.Context())
		return serviceutil.StartHttpServer(cmd.Context(), addr, svc.Router())
	},
}
