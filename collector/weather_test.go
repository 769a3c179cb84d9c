package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchWeatherSummaryProviderDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	w := NewWeatherClient("test-key", nil)
	w.baseURL = server.URL

	summary := w.FetchWeatherSummary(context.Background(), "Nairobi")
	assert.Equal(t, defaultWeather, summary)
}

func TestFetchWeatherSummaryProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	w := NewWeatherClient("test-key", nil)
	w.baseURL = server.URL

	summary := w.FetchWeatherSummary(context.Background(), "Nakuru")
	assert.Equal(t, defaultWeather, summary)
}

func TestFetchWeatherSummaryUnusablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(`{"list": []}`))
	}))
	defer server.Close()

	w := NewWeatherClient("test-key", nil)
	w.baseURL = server.URL

	summary := w.FetchWeatherSummary(context.Background(), "Nairobi")
	assert.Equal(t, defaultWeather, summary)
}

func TestFetchWeatherSummaryAverages(t *testing.T) {
	payload := `{"list": [
		{"main": {"temp": 30, "humidity": 70}, "weather": [{"main": "Rain"}]},
		{"main": {"temp": 26, "humidity": 60}, "weather": [{"main": "Clouds"}]},
		{"main": {"temp": 28, "humidity": 80}, "weather": [{"main": "Thunderstorm"}]},
		{"main": {"temp": 24, "humidity": 50}, "weather": [{"main": "Clear"}]}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(payload))
	}))
	defer server.Close()

	w := NewWeatherClient("test-key", nil)
	w.baseURL = server.URL

	summary := w.FetchWeatherSummary(context.Background(), "Mombasa")
	assert.InDelta(t, 27.0, summary.AvgTemp, 1e-9)
	assert.InDelta(t, 65.0, summary.Humidity, 1e-9)
	assert.InDelta(t, 0.5, summary.RainChance, 1e-9)
}

func TestFetchWeatherSummaryUnknownCountyUsesNairobi(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		rw.Write([]byte(`{"list": [{"main": {"temp": 20, "humidity": 55}, "weather": [{"main": "Clear"}]}]}`))
	}))
	defer server.Close()

	w := NewWeatherClient("test-key", nil)
	w.baseURL = server.URL

	w.FetchWeatherSummary(context.Background(), "Atlantis")
	assert.Contains(t, gotQuery, "lat=-1.286389")
}
