package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	source  *MockRateSource
	service portssvc.ExchangeRateSvcFacade
	now     time.Time
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.source = new(MockRateSource)
	suite.now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewExchangeRateService(suite.source,
		services.WithExchangeRateClock(func() time.Time { return suite.now }))
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_Success() {
	suite.source.On("FetchRates", mock.Anything, "USD").Return(rateTable("EUR", "0.92", "CNY", "7.2"), nil).Once()

	rate, err := suite.service.GetExchangeRate(context.Background(), "usd", "eur")

	suite.Require().NoError(err)
	suite.Equal(domain.USD, rate.FromCurrencyCode)
	suite.Equal(domain.EUR, rate.ToCurrencyCode)
	suite.True(rate.Rate.Equal(dec("0.92")))
	suite.Equal(suite.now, rate.FetchedAt)
	suite.source.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_Validation() {
	cases := [][2]string{{"XXX", "USD"}, {"USD", "XXX"}, {"USD", "usd"}}
	for _, c := range cases {
		_, err := suite.service.GetExchangeRate(context.Background(), c[0], c[1])
		suite.ErrorIs(err, apperrors.ErrValidation, "%s -> %s", c[0], c[1])
	}
	suite.source.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_SourceFailure() {
	suite.source.On("FetchRates", mock.Anything, "CNY").Return(nil, errors.New("timeout")).Once()

	rate, err := suite.service.GetExchangeRate(context.Background(), "CNY", "USD")

	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrRateFetch)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_MissingTarget() {
	suite.source.On("FetchRates", mock.Anything, "CNY").Return(rateTable("EUR", "0.13"), nil).Once()

	_, err := suite.service.GetExchangeRate(context.Background(), "CNY", "USD")

	suite.ErrorIs(err, apperrors.ErrRateFetch)
}

func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
