package handlers

import (
	"context"

	"agrohub-ai/models"
)

// ForecastService is the slice of the forecasting engine the HTTP layer
// depends on. Narrowed to an interface so handler tests can stub it.
type ForecastService interface {
	GenerateDemandForecast(ctx context.Context, forecastType string, region *models.Region) ([]models.ForecastPoint, error)
	GeneratePriceRecommendation(ctx context.Context, productID string) (models.PriceRecommendation, error)
	GenerateRegionalHeatmap(ctx context.Context) (map[string]models.RegionCluster, error)
	AnalyzeYieldVsDemand(ctx context.Context, filter models.ProductFilter, days int) (*models.YieldDemandAnalysis, error)
	GetFarmerInsights(ctx context.Context, farmerID string) (*models.FarmerInsights, error)
}

var svc ForecastService

// Init wires the forecasting service into the handler package. Must be
// called before any route is served.
func Init(s ForecastService) {
	svc = s
}
