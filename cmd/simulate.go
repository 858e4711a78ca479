package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/abhisek/finwise/internal/interest"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project a monthly saving habit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		monthly, _ := cmd.Flags().GetString("monthly")
		years, _ := cmd.Flags().GetInt("years")
		ret, _ := cmd.Flags().GetString("return")

		in := interest.ProjectionInput{Years: years}
		if in.MonthlyContribution, err = decimal.NewFromString(monthly); err != nil {
			return fmt.Errorf("--monthly: %w", err)
		}
		if in.AnnualReturnPct, err = decimal.NewFromString(ret); err != nil {
			return fmt.Errorf("--return: %w", err)
		}
		if err := in.Validate(); err != nil {
			return err
		}

		p := interest.Project(in)
		tag, cur := cfg.LocaleTag(), cfg.Currency
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saving %s a month for %d years at %s%%\n\n",
			interest.FormatCurrency(in.MonthlyContribution.Round(0).IntPart(), tag, cur), years, in.AnnualReturnPct)
		fmt.Fprintf(out, "  %-14s %s\n", "Contributions", interest.FormatCurrency(p.Contributions, tag, cur))
		fmt.Fprintf(out, "  %-14s %s\n", "Growth", interest.FormatCurrency(p.Growth, tag, cur))
		fmt.Fprintf(out, "  %-14s %s\n", "Total", interest.FormatCurrency(p.Total, tag, cur))
		return nil
	},
}

func init() {
	simulateCmd.Flags().String("monthly", "500", "Monthly contribution")
	simulateCmd.Flags().Int("years", 10, "Number of years")
	simulateCmd.Flags().String("return", "8", "Expected annual return in percent")
}
