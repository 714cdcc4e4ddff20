package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var provisionPeriod string

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Run month-end loan-loss provisioning (CKPN) for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		if provisionPeriod == "" {
			provisionPeriod = time.Now().AddDate(0, -1, 0).Format("2006-01")
		}
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.services.Provisioning.RunMonthlyProvision(cmd.Context(), provisionPeriod, systemUser)
		if err != nil {
			return err
		}
		logger.Info("Provisioning run finished",
			slog.String("period", summary.Period),
			slog.Int("processed", summary.Processed),
			slog.Int("skipped", summary.Skipped),
			slog.Int("failed", summary.Failed))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionPeriod, "period", "", "Period as YYYY-MM (default: previous month)")
	rootCmd.AddCommand(provisionCmd)
}
