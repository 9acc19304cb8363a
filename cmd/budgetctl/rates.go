package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/SscSPs/budget_tracker_app/internal/platform/bootstrap"
	"github.com/spf13/cobra"
)

var flagBase string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch live exchange rates for the supported currencies",
	RunE:  runRates,
}

func init() {
	ratesCmd.Flags().StringVarP(&flagBase, "base", "b", string(domain.CNY), "Base currency code")
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, _ []string) error {
	base, ok := domain.LookupCurrency(flagBase)
	if !ok {
		return fmt.Errorf("unsupported base currency %q", flagBase)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, closeSource := bootstrap.NewRateSource(cfg, slog.Default())
	defer closeSource()

	rates, err := source.FetchRates(cmd.Context(), string(base.CurrencyCode))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  1 %s =\n", base.CurrencyCode)
	for _, c := range domain.SupportedCurrencies() {
		if c.CurrencyCode == base.CurrencyCode {
			continue
		}
		rate, found := rates[string(c.CurrencyCode)]
		if !found {
			fmt.Fprintf(out, "    %-4s %s\n", c.CurrencyCode, "n/a")
			continue
		}
		fmt.Fprintf(out, "    %-4s %s  (%s)\n", c.CurrencyCode, rate.StringFixed(4), c.Name)
	}
	return nil
}
