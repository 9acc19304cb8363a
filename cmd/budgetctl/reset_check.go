package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/SscSPs/budget_tracker_app/internal/core/services"
	"github.com/SscSPs/budget_tracker_app/internal/platform/bootstrap"
	"github.com/spf13/cobra"
)

var flagUserID string

var resetCheckCmd = &cobra.Command{
	Use:   "reset-check",
	Short: "Run the billing cycle reset for one user's ledger",
	Long: `Load the stored ledger of one user, apply the billing cycle reset and save it.

The command works on the stored copy only. A server holding an open session for
the same user keeps its in-memory ledger and overwrites this reset on its next
save, so run it while the user has no open session or the server is stopped.`,
	RunE: runResetCheck,
}

func init() {
	resetCheckCmd.Flags().StringVarP(&flagUserID, "user", "u", "", "User ID whose ledger is checked")
	_ = resetCheckCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(resetCheckCmd)
}

func runResetCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := slog.Default()

	repos, closeStore, err := bootstrap.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	state, err := repos.LedgerRepo.FindLedger(ctx, flagUserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("no stored ledger for user %q", flagUserID)
	}
	if err != nil {
		return err
	}

	ledger := services.NewLedgerService(flagUserID, state, repos.LedgerRepo,
		services.WithLocation(cfg.Location),
		services.WithLedgerLogger(logger),
	)

	reset, err := ledger.CheckAndReset(ctx)
	if err != nil {
		return err
	}

	current, err := ledger.GetLedger(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reset {
		fmt.Fprintf(out, "  %s: billing cycle reset, expenses cleared\n", flagUserID)
	} else {
		fmt.Fprintf(out, "  %s: no reset due (%d expenses kept)\n", flagUserID, len(current.Expenses))
	}
	fmt.Fprintf(out, "  last reset: %s\n", formatResetDate(current.LastResetDate))
	return nil
}

func formatResetDate(d *domain.Date) string {
	if d == nil {
		return "never"
	}
	return d.String()
}
