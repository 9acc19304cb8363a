package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyCode is an ISO 4217 code from the closed set the ledger supports.
type CurrencyCode string

const (
	CNY CurrencyCode = "CNY"
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	GBP CurrencyCode = "GBP"
	JPY CurrencyCode = "JPY"
	HKD CurrencyCode = "HKD"
	CAD CurrencyCode = "CAD"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode CurrencyCode `json:"currencyCode"` // e.g., "USD"
	Symbol       string       `json:"symbol"`       // e.g., "$"
	Name         string       `json:"name"`         // e.g., "US Dollar"
}

var supportedCurrencies = []Currency{
	{CurrencyCode: CNY, Symbol: "¥", Name: "Chinese Yuan"},
	{CurrencyCode: USD, Symbol: "$", Name: "US Dollar"},
	{CurrencyCode: EUR, Symbol: "€", Name: "Euro"},
	{CurrencyCode: GBP, Symbol: "£", Name: "British Pound"},
	{CurrencyCode: JPY, Symbol: "¥", Name: "Japanese Yen"},
	{CurrencyCode: HKD, Symbol: "HK$", Name: "Hong Kong Dollar"},
	{CurrencyCode: CAD, Symbol: "C$", Name: "Canadian Dollar"},
}

// SupportedCurrencies returns a copy of the currency table.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// LookupCurrency finds a supported currency by code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range supportedCurrencies {
		if string(c.CurrencyCode) == code {
			return c, true
		}
	}
	return Currency{}, false
}

// IsSupportedCurrency reports whether code belongs to the closed currency set.
func IsSupportedCurrency(code string) bool {
	_, ok := LookupCurrency(code)
	return ok
}

// Symbol returns the display symbol, or an empty string for unknown codes.
func (c CurrencyCode) Symbol() string {
	if cur, ok := LookupCurrency(string(c)); ok {
		return cur.Symbol
	}
	return ""
}

// FormatAmount renders an amount with the currency symbol and two decimals.
// Example: 12.345 with USD returns "$12.35"
func FormatAmount(amount decimal.Decimal, code CurrencyCode) string {
	return code.Symbol() + amount.StringFixed(2)
}

// ExchangeRate is a quoted rate between two currencies: units of To per 1 From.
type ExchangeRate struct {
	FromCurrencyCode CurrencyCode    `json:"fromCurrencyCode"`
	ToCurrencyCode   CurrencyCode    `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	FetchedAt        time.Time       `json:"fetchedAt"`
}
