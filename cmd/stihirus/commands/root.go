package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"stihirus-reader/internal/scrapers/stihirus"
	"stihirus-reader/internal/service"
	"stihirus-reader/internal/telemetry"
	"stihirus-reader/lib/restyutil"

	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	dumpHttp   string
	configPath string
)

// set up by the root command before any subcommand runs
var (
	config    appConfig
	svc       service.Service
	telConfig telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:           "stihirus",
	Short:         "stihirus is a read-only client for the stihirus.ru poetry site.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var err error
		config, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		telConfig, err = telemetry.SetupFromEnv(cmd.Context(), "stihirus")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		var dump restyutil.InstrumentOutput
		if dumpHttp != "" {
			output, err := restyutil.NewFilesystemOutput(dumpHttp)
			if err != nil {
				return fmt.Errorf("create http dump directory: %w", err)
			}
			dump = output
		}

		tel := telemetry.SlogAPI{}
		transport, err := stihirus.NewRestyTransport(config.Scraper, tel, dump)
		if err != nil {
			return err
		}
		scraper, err := stihirus.NewScraper(config.Scraper, transport, tel)
		if err != nil {
			return err
		}
		svc = service.NewService(scraper, tel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := telConfig.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Print the raw response envelope as JSON.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	flags.StringVar(&dumpHttp, "dump-http", "", "Write every HTTP exchange to files in this directory.")
	flags.StringVar(&configPath, "config", "config.json5", "The config file to read.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
