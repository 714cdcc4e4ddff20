package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "coop_backend",
	Short:         "Cooperative back-office financial core",
	Long:          "General ledger, member lending, loan-loss provisioning, store inventory and financial reports for a savings and loan cooperative.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			logger.Error("Failed to load config", slog.String("error", err.Error()))
			return err
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}
