package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"agrohub-ai/forecast"
	"agrohub-ai/models"
)

// defaultWeather is served whenever the provider is unreachable or returns
// nothing usable. Weather degradation never surfaces an error.
var defaultWeather = models.WeatherSummary{AvgTemp: 24, Humidity: 65, RainChance: 0.3}

// countyCoordinates maps served counties to provider query coordinates.
// Unknown counties fall back to Nairobi.
var countyCoordinates = map[string][2]float64{
	"Nairobi":     {-1.286389, 36.817223},
	"Kiambu":      {-1.1, 36.8356},
	"Nakuru":      {-0.3031, 36.0800},
	"Uasin Gishu": {0.5143, 35.2698},
	"Meru":        {0.0476, 37.6559},
	"Machakos":    {-1.5167, 37.2667},
	"Mombasa":     {-4.0435, 39.6682},
}

// WeatherClient fetches county weather summaries from OpenWeatherMap behind
// a circuit breaker. It implements forecast.WeatherSource.
type WeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewWeatherClient(apiKey string, logger *zap.Logger) *WeatherClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("weather circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

type owmForecastResponse struct {
	List []struct {
		Main struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

// FetchWeatherSummary averages the provider's forecast entries for the
// county into a single summary, degrading to defaultWeather on any failure.
func (w *WeatherClient) FetchWeatherSummary(ctx context.Context, county string) models.WeatherSummary {
	coords, ok := countyCoordinates[county]
	if !ok {
		coords = countyCoordinates["Nairobi"]
	}

	body, err := w.breaker.Execute(func() (interface{}, error) {
		return w.fetchForecast(ctx, coords[0], coords[1])
	})
	if err != nil {
		w.logger.Warn("weather provider unavailable, using default summary",
			zap.String("county", county),
			zap.Error(err))
		return defaultWeather
	}

	var resp owmForecastResponse
	if err := json.Unmarshal(body.([]byte), &resp); err != nil || len(resp.List) == 0 {
		w.logger.Warn("weather provider returned unusable payload",
			zap.String("county", county))
		return defaultWeather
	}

	summary := defaultWeather
	var tempSum, tempN, humSum, humN, rainSum float64
	for _, entry := range resp.List {
		if entry.Main.Temp != nil {
			tempSum += *entry.Main.Temp
			tempN++
		}
		if entry.Main.Humidity != nil {
			humSum += *entry.Main.Humidity
			humN++
		}
		if len(entry.Weather) > 0 {
			switch entry.Weather[0].Main {
			case "Rain", "Thunderstorm":
				rainSum++
			}
		}
	}
	if tempN > 0 {
		summary.AvgTemp = tempSum / tempN
	}
	if humN > 0 {
		summary.Humidity = humSum / humN
	}
	summary.RainChance = rainSum / float64(len(resp.List))
	return summary
}

func (w *WeatherClient) fetchForecast(ctx context.Context, lat, lon float64) ([]byte, error) {
	url := fmt.Sprintf("%s/forecast?lat=%f&lon=%f&appid=%s&units=metric", w.baseURL, lat, lon, w.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", forecast.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
