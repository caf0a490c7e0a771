package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrencyRateBaseCurrency(t *testing.T) {
	rate, err := GetCurrencyRate("EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	rate, err = GetCurrencyRate("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestGetCurrencyRateFromFakeAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"EUR","rates":{"USD":1.09,"GBP":0.84}}`))
	}))
	defer server.Close()
	t.Setenv("EXCHANGE_API_URL", server.URL)
	lastFetch = time.Time{}

	rate, err := GetCurrencyRate("USD")
	require.NoError(t, err)
	assert.Equal(t, 1.09, rate)

	// Кэш: повторный запрос не ходит в API.
	server.Close()
	rate, err = GetCurrencyRate("GBP")
	require.NoError(t, err)
	assert.Equal(t, 0.84, rate)

	_, err = GetCurrencyRate("XYZ")
	assert.Error(t, err)
}

func TestRefreshRatesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	t.Setenv("EXCHANGE_API_URL", server.URL)
	lastFetch = time.Time{}

	assert.Error(t, RefreshRates())
}
