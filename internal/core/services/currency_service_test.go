package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	service portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.service = services.NewCurrencyService()
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_Success() {
	currency, err := suite.service.GetCurrencyByCode(context.Background(), "hkd")

	suite.Require().NoError(err)
	suite.Equal(domain.HKD, currency.CurrencyCode)
	suite.Equal("HK$", currency.Symbol)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_NotFound() {
	currency, err := suite.service.GetCurrencyByCode(context.Background(), "BTC")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies() {
	currencies, err := suite.service.ListCurrencies(context.Background())

	suite.Require().NoError(err)
	suite.Len(currencies, 7)
	suite.Equal(domain.CNY, currencies[0].CurrencyCode)
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
