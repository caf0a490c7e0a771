package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// Курсы валют к базовому EUR. Кэш обновляется не чаще раза в час; cron в
// main.go прогревает его, чтобы первый отчёт не ждал внешнего API.

var (
	cachedRates  = sync.Map{}
	lastFetch    time.Time
	fetchMu      sync.Mutex
	cacheTimeout = 1 * time.Hour
)

func apiURL() string {
	if url := os.Getenv("EXCHANGE_API_URL"); url != "" {
		return url
	}
	return "https://api.frankfurter.app/latest?from=EUR"
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func GetCurrencyRate(currencyCode string) (float64, error) {
	if currencyCode == "" || currencyCode == "EUR" {
		return 1, nil
	}

	// Check if rate is in cache and it's still valid
	if rate, ok := cachedRates.Load(currencyCode); ok {
		if time.Since(lastFetch) < cacheTimeout {
			return rate.(float64), nil
		}
	}

	if err := RefreshRates(); err != nil {
		log.Printf("Failed to fetch exchange rates: %v", err)
		// Use cached data if available
		if rate, ok := cachedRates.Load(currencyCode); ok {
			return rate.(float64), nil
		}
		return 0, err
	}

	if rate, ok := cachedRates.Load(currencyCode); ok {
		return rate.(float64), nil
	}
	return 0, errors.New("rate not found for currency: " + currencyCode)
}

func RefreshRates() error {
	fetchMu.Lock()
	defer fetchMu.Unlock()

	if time.Since(lastFetch) < cacheTimeout {
		return nil
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(apiURL())
	if err != nil {
		return fmt.Errorf("ошибка запроса курсов валют: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервис курсов валют вернул статус %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("ошибка разбора ответа сервиса курсов: %v", err)
	}

	for code, rate := range parsed.Rates {
		cachedRates.Store(code, rate)
	}
	lastFetch = time.Now()
	log.Printf("Курсы валют обновлены, загружено %d валют", len(parsed.Rates))
	return nil
}
