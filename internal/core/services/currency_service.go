package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
)

type currencyService struct {
	BaseService
}

// NewCurrencyService returns the service over the closed set of supported currencies.
func NewCurrencyService() portssvc.CurrencySvcFacade {
	return &currencyService{}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, ok := domain.LookupCurrency(currencyCode)
	if !ok {
		s.LogDebug(ctx, "Currency not supported", "currency_code", currencyCode)
		return nil, fmt.Errorf("%w: currency '%s'", apperrors.ErrNotFound, currencyCode)
	}
	return &currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return domain.SupportedCurrencies(), nil
}
