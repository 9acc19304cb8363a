package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPair is an amount in the primary currency and its conversion into the
// secondary currency at the current rate.
type MoneyPair struct {
	Primary   decimal.Decimal `json:"primary"`
	Secondary decimal.Decimal `json:"secondary"`
}

// BudgetSummary holds the totals shown on the overview page.
type BudgetSummary struct {
	PrimaryCurrency   CurrencyCode `json:"primaryCurrency"`
	SecondaryCurrency CurrencyCode `json:"secondaryCurrency"`
	Budget            MoneyPair    `json:"budget"`
	Spent             MoneyPair    `json:"spent"`
	Remaining         MoneyPair    `json:"remaining"`
	WishlistTotal     MoneyPair    `json:"wishlistTotal"`
	AfterWishlist     MoneyPair    `json:"afterWishlist"`
}

func (s LedgerState) pair(amount decimal.Decimal) MoneyPair {
	return MoneyPair{Primary: amount, Secondary: s.Convert(amount)}
}

// Summary computes remaining budget before and after the wishlist. Every
// secondary figure is derived from the primary one at the current rate.
func (s LedgerState) Summary() BudgetSummary {
	spent := decimal.Zero
	for _, e := range s.Expenses {
		spent = spent.Add(e.Amount)
	}
	wishes := decimal.Zero
	for _, w := range s.Wishlist {
		wishes = wishes.Add(w.Price)
	}
	remaining := s.MonthlyBudget.Sub(spent)
	return BudgetSummary{
		PrimaryCurrency:   s.PrimaryCurrency,
		SecondaryCurrency: s.SecondaryCurrency,
		Budget:            s.pair(s.MonthlyBudget),
		Spent:             s.pair(spent),
		Remaining:         s.pair(remaining),
		WishlistTotal:     s.pair(wishes),
		AfterWishlist:     s.pair(remaining.Sub(wishes)),
	}
}

// RateText renders the current rate, e.g. "1 CNY = 7.20 USD".
func (s LedgerState) RateText() string {
	return fmt.Sprintf("1 %s = %s %s", s.PrimaryCurrency, s.ExchangeRate.StringFixed(2), s.SecondaryCurrency)
}

// RateFreshness describes how long ago the rate was refreshed. It returns an
// empty string when the rate was never refreshed.
func RateFreshness(lastUpdate *Timestamp, now time.Time) string {
	if lastUpdate == nil || lastUpdate.IsZero() {
		return ""
	}
	minutes := int(now.Sub(lastUpdate.Time) / time.Minute)
	switch {
	case minutes <= 0:
		return "just now"
	case minutes == 1:
		return "1 minute ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour ago"
	}
	return fmt.Sprintf("%d hours ago", hours)
}

// RateIsStale reports whether a refresh is due: never refreshed, or the last
// refresh is at least maxAge old.
func RateIsStale(lastUpdate *Timestamp, now time.Time, maxAge time.Duration) bool {
	if lastUpdate == nil || lastUpdate.IsZero() {
		return true
	}
	return now.Sub(lastUpdate.Time) >= maxAge
}

// RateStatus reports the outcome of the most recent rate refresh attempt.
type RateStatus string

const (
	RateStatusOK          RateStatus = "ok"
	RateStatusFetchFailed RateStatus = "fetch failed"
)

// Overview is the read model behind the overview page: totals plus the rate
// line and billing cycle settings.
type Overview struct {
	BudgetSummary
	RateText       string     `json:"rateText"`
	RateFreshness  string     `json:"rateFreshness,omitempty"`
	RateStatus     RateStatus `json:"rateStatus"`
	RateError      string     `json:"rateError,omitempty"`
	LastRateUpdate *Timestamp `json:"lastRateUpdate,omitempty"`
	ResetDay       int        `json:"resetDay"`
	LastResetDate  *Date      `json:"lastResetDate,omitempty"`
}

// RateUpdate describes an applied exchange rate refresh.
type RateUpdate struct {
	OldRate       decimal.Decimal `json:"oldRate"`
	NewRate       decimal.Decimal `json:"newRate"`
	RebasedWishes int             `json:"rebasedWishes"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
