// Command budgetctl runs operator tasks against the budget tracker store.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Budget tracker operator CLI",
	Long:          "Apply migrations, inspect live exchange rates and run billing cycle checks outside the server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
