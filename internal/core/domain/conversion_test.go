package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stateWithRate(rate string) domain.LedgerState {
	s := domain.NewLedgerState()
	s.ExchangeRate = dec(rate)
	return *s
}

func TestConvertEntry(t *testing.T) {
	rate := dec("7.2")

	primary, secondary := domain.ConvertEntry(dec("100"), domain.OriginPrimary, rate)
	assert.True(t, primary.Equal(dec("100")))
	assert.True(t, secondary.Equal(dec("720")))

	primary, secondary = domain.ConvertEntry(dec("100"), domain.OriginSecondary, rate)
	assert.InDelta(t, 13.89, primary.InexactFloat64(), 0.005)
	assert.True(t, secondary.Equal(dec("100")))
}

func TestApplyTax(t *testing.T) {
	tests := []struct {
		name   string
		option domain.TaxOption
		want   string
	}{
		{name: "no tax", option: domain.TaxNone, want: "100"},
		{name: "empty option", option: "", want: "100"},
		{name: "price before tax", option: domain.TaxBefore, want: "113"},
		{name: "price after tax", option: domain.TaxAfter, want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ApplyTax(dec("100"), dec("13"), tt.option)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestEntryInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.EntryInput
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid primary entry",
			in:   domain.EntryInput{Name: "Coffee", Amount: dec("3.5"), Origin: domain.OriginPrimary},
		},
		{
			name:    "empty name",
			in:      domain.EntryInput{Name: "  ", Amount: dec("3.5"), Origin: domain.OriginPrimary},
			wantErr: true,
			errMsg:  "name is required",
		},
		{
			name:    "zero amount",
			in:      domain.EntryInput{Name: "Coffee", Amount: decimal.Zero, Origin: domain.OriginPrimary},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "negative amount",
			in:      domain.EntryInput{Name: "Coffee", Amount: dec("-1"), Origin: domain.OriginSecondary},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "unknown origin",
			in:      domain.EntryInput{Name: "Coffee", Amount: dec("1"), Origin: "tertiary"},
			wantErr: true,
			errMsg:  "currency must be",
		},
		{
			name:    "unknown tax option",
			in:      domain.EntryInput{Name: "Coffee", Amount: dec("1"), Origin: domain.OriginPrimary, TaxOption: "maybe"},
			wantErr: true,
			errMsg:  "tax option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewExpense_SnapshotsRate(t *testing.T) {
	state := stateWithRate("7.2")
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	e, err := domain.NewExpense("e1", domain.EntryInput{Name: " Lunch ", Amount: dec("72"), Origin: domain.OriginSecondary}, state, at)
	require.NoError(t, err)

	assert.Equal(t, "Lunch", e.Name)
	assert.True(t, e.Amount.Equal(dec("10")))
	require.NotNil(t, e.AmountInSecondary)
	assert.True(t, e.AmountInSecondary.Equal(dec("72")))
	require.NotNil(t, e.ExchangeRate)
	assert.True(t, e.ExchangeRate.Equal(dec("7.2")))
	assert.Equal(t, domain.OriginSecondary, e.OriginalCurrency)
	assert.Equal(t, domain.CNY, e.PrimaryCurrency)
	assert.Equal(t, domain.USD, e.SecondaryCurrency)
	require.NotNil(t, e.Date)
	assert.True(t, e.Date.Equal(at))
}

func TestNewWishItem(t *testing.T) {
	at := time.Now()

	t.Run("secondary origin keeps original price", func(t *testing.T) {
		w, err := domain.NewWishItem("w1", domain.EntryInput{Name: "Headphones", Amount: dec("100"), Origin: domain.OriginSecondary}, stateWithRate("7.2"), at)
		require.NoError(t, err)
		assert.InDelta(t, 13.89, w.Price.InexactFloat64(), 0.005)
		require.NotNil(t, w.OriginalPrice)
		assert.True(t, w.OriginalPrice.Equal(dec("100")))
		assert.Equal(t, domain.OriginSecondary, w.OriginalCurrency)
	})

	t.Run("tax before in primary currency", func(t *testing.T) {
		state := stateWithRate("7.2")
		state.TaxRate = dec("13")
		w, err := domain.NewWishItem("w2", domain.EntryInput{Name: "Desk", Amount: dec("100"), Origin: domain.OriginPrimary, TaxOption: domain.TaxBefore}, state, at)
		require.NoError(t, err)
		assert.True(t, w.Price.Equal(dec("113")), "got %s", w.Price)
		assert.Nil(t, w.OriginalPrice)
	})

	t.Run("tax applied before conversion", func(t *testing.T) {
		state := stateWithRate("2")
		state.TaxRate = dec("10")
		w, err := domain.NewWishItem("w3", domain.EntryInput{Name: "Lamp", Amount: dec("100"), Origin: domain.OriginSecondary, TaxOption: domain.TaxBefore}, state, at)
		require.NoError(t, err)
		require.NotNil(t, w.OriginalPrice)
		assert.True(t, w.OriginalPrice.Equal(dec("110")))
		assert.True(t, w.Price.Equal(dec("55")))
	})
}

func TestRebaseWishlist(t *testing.T) {
	original := dec("100")
	items := []domain.WishItem{
		{ID: "a", Price: dec("13.888"), OriginalPrice: &original, OriginalCurrency: domain.OriginSecondary},
		{ID: "b", Price: dec("50"), OriginalCurrency: domain.OriginPrimary},
	}

	n := domain.RebaseWishlist(items, dec("7.5"))

	assert.Equal(t, 1, n)
	assert.InDelta(t, 13.33, items[0].Price.InexactFloat64(), 0.005)
	assert.True(t, items[1].Price.Equal(dec("50")))
}

func TestInferExpenseOrigin(t *testing.T) {
	rate := dec("7.2")
	snapshot := dec("720")
	mismatched := dec("50")

	tests := []struct {
		name    string
		expense domain.Expense
		want    domain.OriginCurrency
	}{
		{
			name:    "snapshot consistent with amount",
			expense: domain.Expense{Amount: dec("100"), AmountInSecondary: &snapshot, ExchangeRate: &rate},
			want:    domain.OriginSecondary,
		},
		{
			name:    "snapshot inconsistent with amount",
			expense: domain.Expense{Amount: dec("100"), AmountInSecondary: &mismatched, ExchangeRate: &rate},
			want:    domain.OriginPrimary,
		},
		{
			name:    "no snapshot",
			expense: domain.Expense{Amount: dec("10")},
			want:    domain.OriginPrimary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.InferExpenseOrigin(tt.expense))
		})
	}
}

func TestExpenseEditForm_Origin(t *testing.T) {
	rate := dec("7.2")
	snapshot := dec("720")

	explicit := domain.Expense{ID: "e1", Name: "Rent", Amount: dec("100"), AmountInSecondary: &snapshot, ExchangeRate: &rate, OriginalCurrency: domain.OriginPrimary}
	form := domain.ExpenseEditForm(explicit)
	assert.Equal(t, domain.OriginPrimary, form.Origin)
	assert.True(t, form.Amount.Equal(dec("100")))

	legacy := explicit
	legacy.LegacyOrigin = true
	form = domain.ExpenseEditForm(legacy)
	assert.Equal(t, domain.OriginSecondary, form.Origin)
	assert.True(t, form.Amount.Equal(dec("720")))
}

func TestEditForms(t *testing.T) {
	state := stateWithRate("7.2")
	at := time.Now()

	e, err := domain.NewExpense("e1", domain.EntryInput{Name: "Taxi", Amount: dec("36"), Origin: domain.OriginSecondary}, state, at)
	require.NoError(t, err)
	form := domain.ExpenseEditForm(e)
	assert.Equal(t, domain.OriginSecondary, form.Origin)
	assert.True(t, form.Amount.Equal(dec("36")))

	w, err := domain.NewWishItem("w1", domain.EntryInput{Name: "Shoes", Amount: dec("50"), Origin: domain.OriginPrimary}, state, at)
	require.NoError(t, err)
	form = domain.WishEditForm(w)
	assert.Equal(t, domain.OriginPrimary, form.Origin)
	assert.True(t, form.Amount.Equal(dec("50")))
}
