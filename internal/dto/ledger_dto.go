package dto

import (
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRequest is the body for adding or replacing an expense.
type ExpenseRequest struct {
	Name     string                `json:"name" binding:"required"`
	Amount   decimal.Decimal       `json:"amount"` // must be > 0, checked by the service
	Currency domain.OriginCurrency `json:"currency" binding:"required,oneof=primary secondary"`
}

// ToEntryInput converts the request into the domain input.
func (r ExpenseRequest) ToEntryInput() domain.EntryInput {
	return domain.EntryInput{Name: r.Name, Amount: r.Amount, Origin: r.Currency}
}

// WishRequest is the body for adding or replacing a wishlist item.
type WishRequest struct {
	Name      string                `json:"name" binding:"required"`
	Amount    decimal.Decimal       `json:"amount"`
	Currency  domain.OriginCurrency `json:"currency" binding:"required,oneof=primary secondary"`
	TaxOption domain.TaxOption      `json:"taxOption" binding:"omitempty,oneof=none before after"`
}

// ToEntryInput converts the request into the domain input.
func (r WishRequest) ToEntryInput() domain.EntryInput {
	return domain.EntryInput{Name: r.Name, Amount: r.Amount, Origin: r.Currency, TaxOption: r.TaxOption}
}

// UpdateBudgetRequest sets the monthly budget in the primary currency.
type UpdateBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// UpdateTaxRateRequest sets the tax rate in percent.
type UpdateTaxRateRequest struct {
	TaxRate decimal.Decimal `json:"taxRate"`
}

// UpdateResetDayRequest sets the billing reset day.
type UpdateResetDayRequest struct {
	ResetDay int `json:"resetDay" binding:"required,min=1,max=28"`
}

// UpdateCurrenciesRequest changes one or both tracked currencies.
type UpdateCurrenciesRequest struct {
	PrimaryCurrency   *string `json:"primaryCurrency" binding:"omitempty,currency"`
	SecondaryCurrency *string `json:"secondaryCurrency" binding:"omitempty,currency"`
}

// ExpenseResponse is an expense as returned by the API, with display strings.
type ExpenseResponse struct {
	domain.Expense
	SecondaryDisplay string `json:"secondaryDisplay"`
	PrimaryDisplay   string `json:"primaryDisplay"`
}

// WishResponse is a wishlist item as returned by the API, with display strings.
type WishResponse struct {
	domain.WishItem
	PriceInSecondary decimal.Decimal `json:"priceInSecondary"`
	PrimaryDisplay   string          `json:"primaryDisplay"`
	SecondaryDisplay string          `json:"secondaryDisplay"`
}

// LedgerResponse is the full ledger plus its overview.
type LedgerResponse struct {
	Overview          domain.Overview     `json:"overview"`
	PrimaryCurrency   domain.CurrencyCode `json:"primaryCurrency"`
	SecondaryCurrency domain.CurrencyCode `json:"secondaryCurrency"`
	ExchangeRate      decimal.Decimal     `json:"exchangeRate"`
	TaxRate           decimal.Decimal     `json:"taxRate"`
	MonthlyBudget     decimal.Decimal     `json:"monthlyBudget"`
	ResetDay          int                 `json:"resetDay"`
	Expenses          []ExpenseResponse   `json:"expenses"`
	Wishlist          []WishResponse      `json:"wishlist"`
}

// ToExpenseResponse renders an expense against the ledger's currencies. The
// secondary amount shown is the entry-time snapshot.
func ToExpenseResponse(e domain.Expense, state domain.LedgerState) ExpenseResponse {
	return ExpenseResponse{
		Expense:          e,
		PrimaryDisplay:   domain.FormatAmount(e.Amount, state.PrimaryCurrency),
		SecondaryDisplay: domain.FormatAmount(e.SecondaryAmount(state.ExchangeRate), state.SecondaryCurrency),
	}
}

// ToListExpenseResponse converts a slice of expenses.
func ToListExpenseResponse(expenses []domain.Expense, state domain.LedgerState) []ExpenseResponse {
	out := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = ToExpenseResponse(e, state)
	}
	return out
}

// ToWishResponse renders a wishlist item; its secondary price is live.
func ToWishResponse(w domain.WishItem, state domain.LedgerState) WishResponse {
	secondary := state.Convert(w.Price)
	return WishResponse{
		WishItem:         w,
		PriceInSecondary: secondary,
		PrimaryDisplay:   domain.FormatAmount(w.Price, state.PrimaryCurrency),
		SecondaryDisplay: domain.FormatAmount(secondary, state.SecondaryCurrency),
	}
}

// ToListWishResponse converts a slice of wishlist items.
func ToListWishResponse(items []domain.WishItem, state domain.LedgerState) []WishResponse {
	out := make([]WishResponse, len(items))
	for i, w := range items {
		out[i] = ToWishResponse(w, state)
	}
	return out
}

// ToLedgerResponse converts the full ledger.
func ToLedgerResponse(state domain.LedgerState, overview domain.Overview) LedgerResponse {
	return LedgerResponse{
		Overview:          overview,
		PrimaryCurrency:   state.PrimaryCurrency,
		SecondaryCurrency: state.SecondaryCurrency,
		ExchangeRate:      state.ExchangeRate,
		TaxRate:           state.TaxRate,
		MonthlyBudget:     state.MonthlyBudget,
		ResetDay:          state.ResetDay,
		Expenses:          ToListExpenseResponse(state.Expenses, state),
		Wishlist:          ToListWishResponse(state.Wishlist, state),
	}
}
