package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/budget_tracker_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// Reference data routes are public and reuse the ledger suite's router.
type PublicRoutesTestSuite struct {
	routerTestSuite
}

func (suite *PublicRoutesTestSuite) get(path string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	suite.Require().NoError(err)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PublicRoutesTestSuite) TestHealth() {
	w := suite.get("/health")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *PublicRoutesTestSuite) TestListCurrencies() {
	w := suite.get("/api/v1/currencies")

	suite.Require().Equal(http.StatusOK, w.Code)
	var currencies []dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &currencies))
	suite.Len(currencies, 7)
	suite.Equal("CNY", currencies[0].CurrencyCode)
	suite.NotEmpty(w.Header().Get("X-RateLimit-Limit"))
}

func (suite *PublicRoutesTestSuite) TestGetCurrencyByCode() {
	tests := []struct {
		path   string
		status int
	}{
		{path: "/api/v1/currencies/hkd", status: http.StatusOK},
		{path: "/api/v1/currencies/XYZ", status: http.StatusNotFound},
		{path: "/api/v1/currencies/EURO", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		suite.Run(tt.path, func() {
			w := suite.get(tt.path)
			suite.Equal(tt.status, w.Code, w.Body.String())
		})
	}

	w := suite.get("/api/v1/currencies/hkd")
	var currency dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &currency))
	suite.Equal("HKD", currency.CurrencyCode)
	suite.Equal("HK$", currency.Symbol)
}

func (suite *PublicRoutesTestSuite) TestGetExchangeRate() {
	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("0.1389"),
	}, nil).Once()

	w := suite.get("/api/v1/exchange-rates/CNY/USD")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rate dto.ExchangeRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rate))
	suite.Equal("CNY", rate.FromCurrencyCode)
	suite.Equal("USD", rate.ToCurrencyCode)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("0.1389")))
}

func (suite *PublicRoutesTestSuite) TestGetExchangeRate_Errors() {
	suite.rates.On("FetchRates", mock.Anything, "GBP").Return(nil, errors.New("timeout")).Once()

	suite.Equal(http.StatusBadRequest, suite.get("/api/v1/exchange-rates/CNY/CNY").Code)
	suite.Equal(http.StatusBadRequest, suite.get("/api/v1/exchange-rates/CNY/XYZ").Code)
	suite.Equal(http.StatusBadRequest, suite.get("/api/v1/exchange-rates/CN/USD").Code)
	suite.Equal(http.StatusBadGateway, suite.get("/api/v1/exchange-rates/GBP/USD").Code)
}

func TestPublicRoutes(t *testing.T) {
	suite.Run(t, new(PublicRoutesTestSuite))
}
