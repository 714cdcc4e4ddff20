package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	simPrincipal string
	simRate      string
	simTerm      int
	simFees      string
	simStart     string
)

// simulate needs no storage; it only prices a schedule and its effective rate.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Print a flat-rate installment schedule and its effective interest rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := decimal.NewFromString(simPrincipal)
		if err != nil {
			return fmt.Errorf("invalid --principal: %w", err)
		}
		rate, err := decimal.NewFromString(simRate)
		if err != nil {
			return fmt.Errorf("invalid --rate: %w", err)
		}
		fees, err := decimal.NewFromString(simFees)
		if err != nil {
			return fmt.Errorf("invalid --fees: %w", err)
		}
		start := time.Now().UTC().Truncate(24 * time.Hour)
		if simStart != "" {
			if start, err = time.Parse("2006-01-02", simStart); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
		}

		amortization := services.NewAmortizationService()
		disclosure := services.NewInterestDisclosureService(amortization, cfg.Lending)
		loans := services.NewLoanService(nil, nil, amortization, disclosure, nil, nil, nil)
		resp, err := loans.Simulate(dto.SimulateLoanRequest{
			Principal:     principal,
			AnnualRatePct: rate,
			TermMonths:    simTerm,
			Fees:          fees,
			StartDate:     &start,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "No\tDue\tPrincipal\tInterest\tInstallment\tOutstanding\t")
		outstanding := principal
		for _, row := range resp.Summary.Schedule {
			outstanding = outstanding.Sub(row.Principal)
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n", row.InstallmentNo, row.DueDate.Format("2006-01-02"),
				row.Principal.StringFixed(2), row.Interest.StringFixed(2), row.Total.StringFixed(2), outstanding.StringFixed(2))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nMonthly payment: %s\nTotal interest:  %s\nTotal payable:   %s\n",
			resp.Summary.MonthlyPayment.StringFixed(2), resp.Summary.TotalInterest.StringFixed(2), resp.Summary.TotalPayable.StringFixed(2))
		if resp.EIR != nil {
			fmt.Printf("Effective rate:  %s%% p.a.\n", resp.EIR.AnnualRatePct.StringFixed(2))
		}
		if resp.Warning != "" {
			fmt.Printf("Warning: %s\n", resp.Warning)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simPrincipal, "principal", "10000000", "Loan principal")
	simulateCmd.Flags().StringVar(&simRate, "rate", "12", "Flat annual rate in percent")
	simulateCmd.Flags().IntVar(&simTerm, "term", 12, "Term in months")
	simulateCmd.Flags().StringVar(&simFees, "fees", "0", "Up-front fees deducted at disbursement")
	simulateCmd.Flags().StringVar(&simStart, "start", "", "Disbursement date YYYY-MM-DD (default: today)")
	rootCmd.AddCommand(simulateCmd)
}
