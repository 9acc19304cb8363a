package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OriginCurrency records which currency an entry was keyed in.
type OriginCurrency string

const (
	OriginPrimary   OriginCurrency = "primary"
	OriginSecondary OriginCurrency = "secondary"
)

// Valid reports whether o is one of the known origins.
func (o OriginCurrency) Valid() bool {
	return o == OriginPrimary || o == OriginSecondary
}

// TaxOption controls how a wishlist price is adjusted for tax at entry time.
type TaxOption string

const (
	TaxNone   TaxOption = "none"
	TaxBefore TaxOption = "before" // price excludes tax, add it
	TaxAfter  TaxOption = "after"  // price already includes tax
)

// Valid reports whether t is one of the known tax options. Empty means none.
func (t TaxOption) Valid() bool {
	switch t {
	case "", TaxNone, TaxBefore, TaxAfter:
		return true
	}
	return false
}

const (
	DefaultResetDay = 1
	MinResetDay     = 1
	MaxResetDay     = 28
)

var (
	DefaultExchangeRate = decimal.RequireFromString("7.2")
	DefaultTaxRate      = decimal.NewFromInt(13)
)

// Expense is a spending record. Amount is in the primary currency; the
// secondary amount and rate are a snapshot taken when the entry was saved.
type Expense struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Amount            decimal.Decimal  `json:"amount"`
	AmountInSecondary *decimal.Decimal `json:"amountInSecondary,omitempty"`
	ExchangeRate      *decimal.Decimal `json:"exchangeRate,omitempty"`
	OriginalCurrency  OriginCurrency   `json:"originalCurrency,omitempty"`
	// LegacyOrigin marks an origin defaulted by Normalize; the edit form then
	// infers the origin from the snapshot instead.
	LegacyOrigin      bool             `json:"legacyOrigin,omitempty"`
	PrimaryCurrency   CurrencyCode     `json:"primaryCurrency,omitempty"`
	SecondaryCurrency CurrencyCode     `json:"secondaryCurrency,omitempty"`
	Date              *Timestamp       `json:"date,omitempty"`
}

// HasSnapshot reports whether the expense carries its entry-time rate snapshot.
func (e Expense) HasSnapshot() bool {
	return e.AmountInSecondary != nil && e.ExchangeRate != nil
}

// SecondaryAmount returns the snapshotted secondary amount, falling back to a
// live conversion at rate for records saved before snapshots existed.
func (e Expense) SecondaryAmount(rate decimal.Decimal) decimal.Decimal {
	if e.AmountInSecondary != nil {
		return *e.AmountInSecondary
	}
	return e.Amount.Mul(rate)
}

// WishItem is a planned purchase. Price is always in the primary currency;
// OriginalPrice keeps the secondary-currency value when the item was keyed in
// the secondary currency so the price can be re-derived after rate changes.
type WishItem struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Price            decimal.Decimal  `json:"price"`
	OriginalPrice    *decimal.Decimal `json:"originalPrice,omitempty"`
	OriginalCurrency OriginCurrency   `json:"originalCurrency,omitempty"`
	AddedAt          Timestamp        `json:"addedAt"`
}

// IsSecondaryOrigin reports whether the price is derived from OriginalPrice.
func (w WishItem) IsSecondaryOrigin() bool {
	return w.OriginalCurrency == OriginSecondary && w.OriginalPrice != nil
}

// LedgerState is the whole persisted record of one user's budget.
type LedgerState struct {
	PrimaryCurrency   CurrencyCode    `json:"primaryCurrency"`
	SecondaryCurrency CurrencyCode    `json:"secondaryCurrency"`
	ExchangeRate      decimal.Decimal `json:"exchangeRate"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	MonthlyBudget     decimal.Decimal `json:"monthlyBudget"`
	ResetDay          int             `json:"resetDay"`
	LastResetDate     *Date           `json:"lastResetDate,omitempty"`
	LastRateUpdate    *Timestamp      `json:"lastRateUpdate,omitempty"`
	Expenses          []Expense       `json:"expenses"`
	Wishlist          []WishItem      `json:"wishlist"`
}

// NewLedgerState returns a ledger populated with the defaults used for new users.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		PrimaryCurrency:   CNY,
		SecondaryCurrency: USD,
		ExchangeRate:      DefaultExchangeRate,
		TaxRate:           DefaultTaxRate,
		MonthlyBudget:     decimal.Zero,
		ResetDay:          DefaultResetDay,
		Expenses:          []Expense{},
		Wishlist:          []WishItem{},
	}
}

// Normalize fills in defaults for fields that older records lack. It returns
// true when anything was changed.
func (s *LedgerState) Normalize(newID func() string) bool {
	changed := false
	if code := canonicalCurrency(s.PrimaryCurrency, CNY); code != s.PrimaryCurrency {
		s.PrimaryCurrency = code
		changed = true
	}
	if code := canonicalCurrency(s.SecondaryCurrency, USD); code != s.SecondaryCurrency {
		s.SecondaryCurrency = code
		changed = true
	}
	if !s.ExchangeRate.IsPositive() {
		s.ExchangeRate = DefaultExchangeRate
		changed = true
	}
	if s.TaxRate.IsNegative() {
		s.TaxRate = decimal.Zero
		changed = true
	}
	if s.MonthlyBudget.IsNegative() {
		s.MonthlyBudget = decimal.Zero
		changed = true
	}
	if s.ResetDay < MinResetDay || s.ResetDay > MaxResetDay {
		s.ResetDay = DefaultResetDay
		changed = true
	}
	if s.LastResetDate != nil && s.LastResetDate.IsZero() {
		s.LastResetDate = nil
		changed = true
	}
	if s.LastRateUpdate != nil && s.LastRateUpdate.IsZero() {
		s.LastRateUpdate = nil
		changed = true
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
		changed = true
	}
	if s.Wishlist == nil {
		s.Wishlist = []WishItem{}
		changed = true
	}

	for i := range s.Expenses {
		e := &s.Expenses[i]
		if e.ID == "" {
			e.ID = newID()
			changed = true
		}
		if !e.OriginalCurrency.Valid() {
			e.OriginalCurrency = OriginPrimary
			e.LegacyOrigin = true
			changed = true
		}
	}
	for i := range s.Wishlist {
		w := &s.Wishlist[i]
		if w.ID == "" {
			w.ID = newID()
			changed = true
		}
		if !w.OriginalCurrency.Valid() {
			w.OriginalCurrency = OriginPrimary
			changed = true
		}
		if w.OriginalCurrency == OriginSecondary && w.OriginalPrice == nil {
			// Without the original value there is nothing to re-derive from.
			w.OriginalCurrency = OriginPrimary
			changed = true
		}
		if w.OriginalCurrency == OriginPrimary && w.OriginalPrice != nil {
			w.OriginalPrice = nil
			changed = true
		}
	}
	return changed
}

// canonicalCurrency returns the upper-case supported code for code, or def
// when code is not supported.
func canonicalCurrency(code, def CurrencyCode) CurrencyCode {
	c, ok := LookupCurrency(string(code))
	if !ok {
		return def
	}
	return c.CurrencyCode
}

// Clone returns a deep copy safe to hand to readers outside the ledger lock.
func (s LedgerState) Clone() LedgerState {
	out := s
	if s.LastResetDate != nil {
		d := *s.LastResetDate
		out.LastResetDate = &d
	}
	if s.LastRateUpdate != nil {
		t := *s.LastRateUpdate
		out.LastRateUpdate = &t
	}
	out.Expenses = make([]Expense, len(s.Expenses))
	for i, e := range s.Expenses {
		out.Expenses[i] = e.clone()
	}
	out.Wishlist = make([]WishItem, len(s.Wishlist))
	for i, w := range s.Wishlist {
		out.Wishlist[i] = w.clone()
	}
	return out
}

func (e Expense) clone() Expense {
	out := e
	out.AmountInSecondary = cloneDecimal(e.AmountInSecondary)
	out.ExchangeRate = cloneDecimal(e.ExchangeRate)
	if e.Date != nil {
		t := *e.Date
		out.Date = &t
	}
	return out
}

func (w WishItem) clone() WishItem {
	out := w
	out.OriginalPrice = cloneDecimal(w.OriginalPrice)
	return out
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Convert mirrors a primary-currency amount into the secondary currency at the
// current rate.
func (s LedgerState) Convert(amountPrimary decimal.Decimal) decimal.Decimal {
	return amountPrimary.Mul(s.ExchangeRate)
}

// FindExpense returns the index of the expense with id, or -1.
func (s LedgerState) FindExpense(id string) int {
	for i, e := range s.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// FindWish returns the index of the wishlist item with id, or -1.
func (s LedgerState) FindWish(id string) int {
	for i, w := range s.Wishlist {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// ExpensesInMonth filters expenses by a "2006-01" month key. An empty key
// matches everything, and undated legacy expenses always match.
func (s LedgerState) ExpensesInMonth(month string, loc *time.Location) []Expense {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Expense, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		if month == "" || e.Date == nil || e.Date.In(loc).Format("2006-01") == month {
			out = append(out, e.clone())
		}
	}
	return out
}
