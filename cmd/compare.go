package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/abhisek/finwise/internal/interest"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare simple and compound interest year by year",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		principal, _ := cmd.Flags().GetString("principal")
		rate, _ := cmd.Flags().GetString("rate")

		p := interest.DefaultParams()
		if p.Principal, err = decimal.NewFromString(principal); err != nil {
			return fmt.Errorf("--principal: %w", err)
		}
		if p.AnnualRate, err = decimal.NewFromString(rate); err != nil {
			return fmt.Errorf("--rate: %w", err)
		}
		if err := p.Validate(); err != nil {
			return err
		}

		tag, cur := cfg.LocaleTag(), cfg.Currency
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%5s  %14s  %14s  %14s\n", "Year", "Simple", "Compound", "Difference")
		fmt.Fprintln(out, strings.Repeat("─", 53))
		for _, row := range interest.Schedule(p) {
			fmt.Fprintf(out, "%5d  %14s  %14s  %14s\n",
				row.Years,
				interest.FormatCurrency(row.Simple, tag, cur),
				interest.FormatCurrency(row.Compound, tag, cur),
				interest.FormatCurrency(row.Difference, tag, cur),
			)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().String("principal", "10000", "Starting amount")
	compareCmd.Flags().String("rate", "0.08", "Annual rate as a fraction, e.g. 0.08")
}
