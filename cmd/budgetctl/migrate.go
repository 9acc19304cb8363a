package main

import (
	"fmt"

	"github.com/SscSPs/budget_tracker_app/internal/platform/bootstrap"
	"github.com/SscSPs/budget_tracker_app/internal/platform/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations for the configured backend",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applied, err := bootstrap.Migrate(cfg)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.DataBackend, err)
	}

	if applied {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: migrations applied\n", cfg.DataBackend)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: schema up to date\n", cfg.DataBackend)
	}
	return nil
}
