package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"agrohub-ai/forecast"
	"agrohub-ai/models"
)

type stubService struct {
	forecasts   []models.ForecastPoint
	forecastErr error
	rec         models.PriceRecommendation
	recErr      error
	heatmap     map[string]models.RegionCluster
	analysis    *models.YieldDemandAnalysis
	insights    *models.FarmerInsights
	insightsErr error

	lastForecastType string
	lastRegion       *models.Region
	lastFilter       models.ProductFilter
	lastDays         int
}

func (s *stubService) GenerateDemandForecast(_ context.Context, forecastType string, region *models.Region) ([]models.ForecastPoint, error) {
	s.lastForecastType = forecastType
	s.lastRegion = region
	return s.forecasts, s.forecastErr
}

func (s *stubService) GeneratePriceRecommendation(_ context.Context, productID string) (models.PriceRecommendation, error) {
	return s.rec, s.recErr
}

func (s *stubService) GenerateRegionalHeatmap(_ context.Context) (map[string]models.RegionCluster, error) {
	return s.heatmap, nil
}

func (s *stubService) AnalyzeYieldVsDemand(_ context.Context, filter models.ProductFilter, days int) (*models.YieldDemandAnalysis, error) {
	s.lastFilter = filter
	s.lastDays = days
	return s.analysis, nil
}

func (s *stubService) GetFarmerInsights(_ context.Context, farmerID string) (*models.FarmerInsights, error) {
	return s.insights, s.insightsErr
}

func newTestApp(stub *stubService) *fiber.App {
	Init(stub)
	app := fiber.New()
	app.Get("/health", HandleHealthCheck)
	app.Get("/api/v1/forecasts/nationwide", HandleGetNationwideForecast)
	app.Get("/api/v1/forecasts/regional", HandleGetRegionalForecast)
	app.Get("/api/v1/forecasts/heatmap", HandleGetDemandHeatmap)
	app.Get("/api/v1/forecasts/price-recommendation/:productId", HandleGetPriceRecommendation)
	app.Get("/api/v1/forecasts/yield-vs-demand", HandleGetYieldVsDemand)
	app.Get("/api/v1/forecasts/farmer-insights/:farmerId", HandleGetFarmerInsights)
	app.Get("/api/v1/reports/download/csv", HandleDownloadForecastCSV)
	return app
}

func samplePoint() models.ForecastPoint {
	price := 52.5
	return models.ForecastPoint{
		Crop:                "Maize",
		Demand:              81.3,
		Confidence:          75,
		PriceRecommendation: &price,
		Region:              "Nationwide",
	}
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var envelope map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestHandleHealthCheck(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "ok", envelope["status"])
}

func TestHandleGetNationwideForecast(t *testing.T) {
	stub := &stubService{forecasts: []models.ForecastPoint{samplePoint()}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/nationwide", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "monthly", stub.lastForecastType)
	assert.Nil(t, stub.lastRegion)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "nationwide", data["scope"])
	assert.Len(t, data["forecasts"], 1)
}

func TestHandleGetNationwideForecastInvalidType(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/nationwide?forecast_type=yearly", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, false, envelope["success"])
}

func TestHandleGetNationwideForecastServiceError(t *testing.T) {
	stub := &stubService{forecastErr: fmt.Errorf("db down")}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/nationwide", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandleGetRegionalForecast(t *testing.T) {
	stub := &stubService{forecasts: []models.ForecastPoint{samplePoint()}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/regional?county=Nakuru", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	if assert.NotNil(t, stub.lastRegion) {
		assert.Equal(t, "Nakuru", stub.lastRegion.County)
	}
}

func TestHandleGetRegionalForecastNoCounty(t *testing.T) {
	stub := &stubService{forecasts: []models.ForecastPoint{samplePoint()}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/regional", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, stub.lastRegion)
}

func TestHandleGetDemandHeatmap(t *testing.T) {
	stub := &stubService{heatmap: map[string]models.RegionCluster{
		"Nairobi": {DemandScore: 120, Revenue: 54000, Cluster: 0},
	}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/heatmap", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]interface{})
	assert.Contains(t, data, "Nairobi")
}

func TestHandleGetPriceRecommendationInvalidID(t *testing.T) {
	stub := &stubService{recErr: fmt.Errorf("product id %q: %w", "42", forecast.ErrInvalidIdentifier)}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/price-recommendation/42", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "Invalid product ID", envelope["message"])
}

func TestHandleGetPriceRecommendation(t *testing.T) {
	price := 47.25
	stub := &stubService{rec: models.PriceRecommendation{RecommendedPrice: &price, Confidence: 85, CurrentAvg: &price}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/price-recommendation/8c2f3f9e-26dd-4b54-9a0a-1f5df4a1f9c2", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.InDelta(t, 47.25, data["recommended_price"].(float64), 1e-9)
	assert.InDelta(t, 85, data["confidence"].(float64), 1e-9)
}

func TestHandleGetYieldVsDemand(t *testing.T) {
	stub := &stubService{analysis: &models.YieldDemandAnalysis{
		Success: true,
		Summary: models.YieldDemandSummary{TotalProducts: 2, LowRisk: 2},
	}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/yield-vs-demand?category=Vegetables&county=Nakuru&days=30", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Vegetables", stub.lastFilter.Category)
	assert.Equal(t, "Nakuru", stub.lastFilter.County)
	assert.Equal(t, 30, stub.lastDays)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])
}

func TestHandleGetFarmerInsights(t *testing.T) {
	stub := &stubService{insights: &models.FarmerInsights{
		TotalSales:      34000,
		TotalOrders:     41,
		ActiveProducts:  2,
		DemandForecasts: []models.ForecastPoint{samplePoint()},
		Recommendations: []string{"Use AI price guidance before dispatching produce"},
	}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/farmer-insights/8c2f3f9e-26dd-4b54-9a0a-1f5df4a1f9c2", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]interface{})
	assert.InDelta(t, 34000, data["total_sales"].(float64), 1e-9)
	assert.InDelta(t, 2, data["active_products"].(float64), 1e-9)
}

func TestHandleGetFarmerInsightsInvalidID(t *testing.T) {
	stub := &stubService{insightsErr: fmt.Errorf("farmer id %q: %w", "42", forecast.ErrInvalidIdentifier)}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/farmer-insights/42", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "Invalid farmer ID", envelope["message"])
}

func TestHandleDownloadForecastCSV(t *testing.T) {
	stub := &stubService{forecasts: []models.ForecastPoint{samplePoint()}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/download/csv?forecast_type=weekly", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment; filename=forecast_nationwide_weekly_")

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Crop/Product,Demand Score")
	assert.Contains(t, string(body), "Maize,81.30,52.50,75,Nationwide")
}

func TestHandleDownloadForecastCSVInvalidType(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/download/csv?forecast_type=hourly", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
