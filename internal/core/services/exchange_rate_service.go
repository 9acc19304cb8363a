package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
)

// exchangeRateService quotes live rates between supported currencies.
type exchangeRateService struct {
	BaseService
	source portssvc.RateSource
	now    func() time.Time
}

// ExchangeRateOption configures the exchange rate service
type ExchangeRateOption func(*exchangeRateService)

// WithExchangeRateClock overrides the clock used to stamp quotes
func WithExchangeRateClock(now func() time.Time) ExchangeRateOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new exchange rate service backed by source.
func NewExchangeRateService(source portssvc.RateSource, opts ...ExchangeRateOption) portssvc.ExchangeRateSvcFacade {
	s := &exchangeRateService{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// GetExchangeRate quotes units of toCode per 1 fromCode.
func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	from, ok := domain.LookupCurrency(fromCode)
	if !ok {
		return nil, fmt.Errorf("%w: 'from' currency code '%s' is not supported", apperrors.ErrValidation, fromCode)
	}
	to, ok := domain.LookupCurrency(toCode)
	if !ok {
		return nil, fmt.Errorf("%w: 'to' currency code '%s' is not supported", apperrors.ErrValidation, toCode)
	}
	if from.CurrencyCode == to.CurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	rate, err := fetchPairRate(ctx, s.source, from.CurrencyCode, to.CurrencyCode)
	if err != nil {
		s.LogError(ctx, err, "Failed to quote exchange rate",
			slog.String("from", string(from.CurrencyCode)),
			slog.String("to", string(to.CurrencyCode)))
		return nil, err
	}

	return &domain.ExchangeRate{
		FromCurrencyCode: from.CurrencyCode,
		ToCurrencyCode:   to.CurrencyCode,
		Rate:             rate.Rate,
		FetchedAt:        s.now(),
	}, nil
}

// fetchPairRate asks source for the rates of base and picks target from them.
// Every failure is reported as apperrors.ErrRateFetch.
func fetchPairRate(ctx context.Context, source portssvc.RateSource, base, target domain.CurrencyCode) (*domain.ExchangeRate, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: no rate source configured", apperrors.ErrRateFetch)
	}
	rates, err := source.FetchRates(ctx, string(base))
	if err != nil {
		if errors.Is(err, apperrors.ErrRateFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateFetch, err)
	}
	rate, ok := rates[string(target)]
	if !ok {
		return nil, fmt.Errorf("%w: no rate for %s in %s response", apperrors.ErrRateFetch, target, base)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive rate %s for %s/%s", apperrors.ErrRateFetch, rate, base, target)
	}
	return &domain.ExchangeRate{FromCurrencyCode: base, ToCurrencyCode: target, Rate: rate}, nil
}
