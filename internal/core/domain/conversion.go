package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// OriginEpsilon is the tolerance used when inferring the origin currency of
// legacy expenses from their snapshot fields.
var OriginEpsilon = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// EntryInput is the raw user input for a new or edited ledger entry.
type EntryInput struct {
	Name      string
	Amount    decimal.Decimal
	Origin    OriginCurrency
	TaxOption TaxOption // wishlist only
}

// Validate rejects empty names, non-positive amounts and unknown options.
func (in EntryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !in.Origin.Valid() {
		return fmt.Errorf("%w: currency must be 'primary' or 'secondary'", apperrors.ErrValidation)
	}
	if !in.TaxOption.Valid() {
		return fmt.Errorf("%w: tax option must be 'none', 'before' or 'after'", apperrors.ErrValidation)
	}
	return nil
}

// ConvertEntry applies the entry-time conversion rule. It returns the amount
// to store in the primary currency and the secondary-currency value; for a
// secondary origin the latter is raw itself, kept verbatim.
func ConvertEntry(raw decimal.Decimal, origin OriginCurrency, rate decimal.Decimal) (primary, secondary decimal.Decimal) {
	if origin == OriginSecondary {
		return raw.Div(rate), raw
	}
	return raw, raw.Mul(rate)
}

// ApplyTax adjusts a wishlist price for tax. Only TaxBefore changes the value.
func ApplyTax(raw, taxRate decimal.Decimal, option TaxOption) decimal.Decimal {
	if option != TaxBefore {
		return raw
	}
	return raw.Mul(decimal.NewFromInt(1).Add(taxRate.Div(hundred)))
}

// NewExpense builds an expense from validated input, snapshotting the rate
// and currency pair of state.
func NewExpense(id string, in EntryInput, state LedgerState, at time.Time) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	primary, secondary := ConvertEntry(in.Amount, in.Origin, state.ExchangeRate)
	rate := state.ExchangeRate
	date := NewTimestamp(at)
	return Expense{
		ID:                id,
		Name:              strings.TrimSpace(in.Name),
		Amount:            primary,
		AmountInSecondary: &secondary,
		ExchangeRate:      &rate,
		OriginalCurrency:  in.Origin,
		PrimaryCurrency:   state.PrimaryCurrency,
		SecondaryCurrency: state.SecondaryCurrency,
		Date:              &date,
	}, nil
}

// NewWishItem builds a wishlist item from validated input. Tax is applied
// before conversion, and the taxed value becomes OriginalPrice for
// secondary-origin items.
func NewWishItem(id string, in EntryInput, state LedgerState, at time.Time) (WishItem, error) {
	if err := in.Validate(); err != nil {
		return WishItem{}, err
	}
	taxed := ApplyTax(in.Amount, state.TaxRate, in.TaxOption)
	price, _ := ConvertEntry(taxed, in.Origin, state.ExchangeRate)
	item := WishItem{
		ID:               id,
		Name:             strings.TrimSpace(in.Name),
		Price:            price,
		OriginalCurrency: in.Origin,
		AddedAt:          NewTimestamp(at),
	}
	if in.Origin == OriginSecondary {
		item.OriginalPrice = &taxed
	}
	return item, nil
}

// InferExpenseOrigin guesses which currency a legacy expense was keyed in from
// its snapshot: if amountInSecondary/exchangeRate matches amount within
// OriginEpsilon, the edit form defaults to the secondary currency. Any
// snapshot taken at save time matches, so this is only a form default and is
// never stored.
func InferExpenseOrigin(e Expense) OriginCurrency {
	if !e.HasSnapshot() || !e.ExchangeRate.IsPositive() {
		return OriginPrimary
	}
	calculated := e.AmountInSecondary.Div(*e.ExchangeRate)
	if calculated.Sub(e.Amount).Abs().LessThan(OriginEpsilon) {
		return OriginSecondary
	}
	return OriginPrimary
}

// RebaseWishlist re-derives the primary price of every secondary-origin item
// from its OriginalPrice at newRate. It returns the number of items updated.
func RebaseWishlist(items []WishItem, newRate decimal.Decimal) int {
	n := 0
	for i := range items {
		if items[i].IsSecondaryOrigin() {
			items[i].Price = items[i].OriginalPrice.Div(newRate)
			n++
		}
	}
	return n
}

// EditForm is what an edit dialog should be prefilled with.
type EditForm struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Origin OriginCurrency  `json:"currency"`
}

// ExpenseEditForm returns the name, amount and origin to prefill when editing e.
func ExpenseEditForm(e Expense) EditForm {
	form := EditForm{ID: e.ID, Name: e.Name, Amount: e.Amount.Round(2), Origin: OriginPrimary}
	origin := e.OriginalCurrency
	if e.LegacyOrigin || !origin.Valid() {
		origin = InferExpenseOrigin(e)
	}
	if origin == OriginSecondary && e.AmountInSecondary != nil {
		form.Amount = e.AmountInSecondary.Round(2)
		form.Origin = OriginSecondary
	}
	return form
}

// WishEditForm returns the name, amount and origin to prefill when editing w.
func WishEditForm(w WishItem) EditForm {
	if w.IsSecondaryOrigin() {
		return EditForm{ID: w.ID, Name: w.Name, Amount: *w.OriginalPrice, Origin: OriginSecondary}
	}
	return EditForm{ID: w.ID, Name: w.Name, Amount: w.Price.Round(2), Origin: OriginPrimary}
}
