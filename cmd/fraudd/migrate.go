package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supplyshield/riskengine/internal/infrastructure/config"
	"github.com/supplyshield/riskengine/internal/infrastructure/postgres"
)

func migrateCommand(opts *globalOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := postgresDSN(opts, cmd)
				if err != nil {
					return err
				}
				if err := postgres.Migrate(dsn); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := postgresDSN(opts, cmd)
				if err != nil {
					return err
				}
				if err := postgres.Rollback(dsn); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := postgresDSN(opts, cmd)
				if err != nil {
					return err
				}
				version, dirty, err := postgres.SchemaVersion(dsn)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)
	return migrateCmd
}

// postgresDSN returns the database URL, failing for the embedded store which
// migrates itself on open.
func postgresDSN(opts *globalOptions, cmd *cobra.Command) (string, error) {
	cfg, _, err := loadConfig(opts, cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(cfg.StoreDriver, config.StoreDriverPostgres) {
		return "", fmt.Errorf("migrate: store driver is %q, migrations apply to %q only",
			cfg.StoreDriver, config.StoreDriverPostgres)
	}
	return cfg.DatabaseURL, nil
}
