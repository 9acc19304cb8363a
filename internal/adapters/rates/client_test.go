package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/adapters/rates"
	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRateAPIClient_FetchRates(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"CNY","rates":{"CNY":1,"USD":0.1389,"EUR":0.128}}`))
	}))
	defer srv.Close()

	client := rates.NewExchangeRateAPIClient(srv.URL+"/", time.Second)
	got, err := client.FetchRates(context.Background(), "cny")

	require.NoError(t, err)
	assert.Equal(t, "/latest/CNY", gotPath)
	assert.True(t, got["USD"].Equal(decimal.RequireFromString("0.1389")))
	assert.Len(t, got, 3)
}

func TestExchangeRateAPIClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "server error", status: http.StatusInternalServerError, payload: `{}`},
		{name: "bad json", status: http.StatusOK, payload: `{"rates":`},
		{name: "no rates", status: http.StatusOK, payload: `{"rates":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			_, err := rates.NewExchangeRateAPIClient(srv.URL, time.Second).FetchRates(context.Background(), "USD")
			assert.ErrorIs(t, err, apperrors.ErrRateFetch)
		})
	}
}

func TestCachedSource_FallsBackWhenRedisIsDown(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"rates":{"USD":0.14}}`))
	}))
	defer srv.Close()

	unreachable := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	source := rates.NewCachedSource(rates.NewExchangeRateAPIClient(srv.URL, time.Second), unreachable, time.Minute, nil)
	defer source.Close()

	got, err := source.FetchRates(context.Background(), "CNY")

	require.NoError(t, err)
	assert.True(t, got["USD"].Equal(decimal.RequireFromString("0.14")))
	assert.Equal(t, 1, calls)
}
