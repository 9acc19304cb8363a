package dto

import (
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the structure for API responses containing a quoted exchange rate.
type ExchangeRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	FetchedAt        time.Time       `json:"fetchedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		FromCurrencyCode: string(rate.FromCurrencyCode),
		ToCurrencyCode:   string(rate.ToCurrencyCode),
		Rate:             rate.Rate,
		FetchedAt:        rate.FetchedAt,
	}
}

// RateUpdateResponse is returned after a manual rate refresh.
type RateUpdateResponse struct {
	OldRate       decimal.Decimal `json:"oldRate"`
	NewRate       decimal.Decimal `json:"newRate"`
	RebasedWishes int             `json:"rebasedWishes"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	RateText      string          `json:"rateText"`
}

// ToRateUpdateResponse converts an applied refresh, with the new rate line.
func ToRateUpdateResponse(update domain.RateUpdate, rateText string) RateUpdateResponse {
	return RateUpdateResponse{
		OldRate:       update.OldRate,
		NewRate:       update.NewRate,
		RebasedWishes: update.RebasedWishes,
		UpdatedAt:     update.UpdatedAt,
		RateText:      rateText,
	}
}
