package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/SscSPs/budget_tracker_app/internal/repositories/database/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *sqlite.LedgerRepository {
	t.Helper()
	repo, err := sqlite.NewLedgerRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestLedgerRepository_FindMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.FindLedger(context.Background(), "nobody")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerRepository_SaveThenFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	state := domain.NewLedgerState()
	state.MonthlyBudget = decimal.NewFromInt(1500)
	state.Wishlist = append(state.Wishlist, domain.WishItem{ID: "w1", Name: "Bike", Price: decimal.NewFromInt(200), OriginalCurrency: domain.OriginPrimary})
	require.NoError(t, repo.SaveLedger(ctx, "user-1", *state))

	state.ResetDay = 15
	require.NoError(t, repo.SaveLedger(ctx, "user-1", *state))

	got, err := repo.FindLedger(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, got.MonthlyBudget.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 15, got.ResetDay)
	require.Len(t, got.Wishlist, 1)
	assert.Equal(t, "Bike", got.Wishlist[0].Name)
}
