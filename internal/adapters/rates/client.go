package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL      = "https://api.exchangerate-api.com/v4"
	DefaultFetchTimeout = 10 * time.Second
)

// ExchangeRateAPIClient fetches rates from an exchangerate-api compatible
// endpoint: GET {baseURL}/latest/{BASE} -> {"rates": {"USD": 0.14, ...}}.
type ExchangeRateAPIClient struct {
	baseURL string
	client  *http.Client
}

var _ portssvc.RateSource = (*ExchangeRateAPIClient)(nil)

// NewExchangeRateAPIClient creates a client. Empty baseURL and non-positive
// timeout fall back to the defaults.
func NewExchangeRateAPIClient(baseURL string, timeout time.Duration) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &ExchangeRateAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRates returns units of each currency per 1 base.
func (c *ExchangeRateAPIClient) FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, strings.ToUpper(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrRateFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", apperrors.ErrRateFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", apperrors.ErrRateFetch, resp.StatusCode, url)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperrors.ErrRateFetch, err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: response has no rates", apperrors.ErrRateFetch)
	}
	return body.Rates, nil
}
