package main

import (
	"errors"

	"github.com/SscSPs/coop_backoffice/pkg/database"
	"github.com/spf13/cobra"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("PGSQL_URL is not set")
		}
		steps := 0
		if migrateDownSteps > 0 {
			steps = -migrateDownSteps
		}
		return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, steps, logger)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateDownSteps, "down", 0, "Roll back this many migrations instead of applying")
	rootCmd.AddCommand(migrateCmd)
}
