package main

import (
	"errors"
	"fmt"
	"os"

	"jobTracker/internal/config"
	"jobTracker/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the PostgreSQL schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

var migrateDatabaseURL string

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "Database URL (overrides database.url from config)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, args []string) error {
	url := migrateDatabaseURL
	if url == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		url = cfg.Database.URL
	}
	if url == "" {
		return errors.New("database url required: set --database-url or database.url")
	}

	switch args[0] {
	case "up":
		if err := postgres.Migrate(url); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		if err := postgres.Down(url); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Migration %s complete\n", args[0])
	return nil
}
