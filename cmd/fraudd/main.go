package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/supplyshield/riskengine/internal/infrastructure/config"
	"github.com/supplyshield/riskengine/pkg/observability"
)

const programName = "fraudd"

type globalOptions struct {
	configFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Supplier transaction and invoice financing risk engine",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(
		serveCommand(opts),
		importCommand(opts),
		exportCommand(opts),
		migrateCommand(opts),
		certsCommand(),
		healthcheckCommand(opts),
	)
	return rootCmd
}

// loadConfig reads the configuration and builds a logger writing to out.
func loadConfig(opts *globalOptions, out io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.InitLogger(observability.LogConfig{
		Output:      out,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Service:     programName,
		Environment: cfg.Environment,
	})
	return cfg, logger, nil
}

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}
