package forecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrohub-ai/models"
)

// Forecast horizons in days per granularity. Unknown types fall back to the
// monthly horizon.
var forecastHorizons = map[string]int{
	"weekly":   7,
	"monthly":  30,
	"seasonal": 90,
}

const (
	defaultHorizon      = 30
	salesLookbackDays   = 180
	priceLookbackDays   = 60
	regionLookbackDays  = 60
	defaultAnalysisDays = 90
)

// DataSource is the read-only aggregation capability the core consumes. The
// implementation owns the store handles; the core never touches them.
type DataSource interface {
	FetchSales(ctx context.Context, windowDays int) ([]models.SalesRecord, error)
	FetchRegionalSales(ctx context.Context, windowDays int) ([]models.RegionalSales, error)
	FetchPriceHistory(ctx context.Context, productID string, windowDays int) ([]models.PricePoint, error)
	FetchActiveProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	FetchFarmerProducts(ctx context.Context, farmerID string) ([]models.Product, error)
	FetchFarmerSalesStats(ctx context.Context, productIDs []string) (totalSales float64, totalOrders int, err error)
}

// WeatherSource provides the weather signal. Implementations must degrade
// to a default summary instead of failing.
type WeatherSource interface {
	FetchWeatherSummary(ctx context.Context, county string) models.WeatherSummary
}

// Service is the forecasting engine facade. It is stateless across requests:
// every call recomputes from the data source.
type Service struct {
	source   DataSource
	weather  WeatherSource
	ensemble *Ensemble
	composer *Composer
	logger   *zap.Logger
}

func NewService(source DataSource, weather WeatherSource, ensemble *Ensemble, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:   source,
		weather:  weather,
		ensemble: ensemble,
		composer: NewComposer(),
		logger:   logger,
	}
}

// GenerateDemandForecast produces per-category forecast points for the
// given granularity and optional region. Insufficient history never fails
// the call; it switches to the synthetic fallback forecast.
func (s *Service) GenerateDemandForecast(ctx context.Context, forecastType string, region *models.Region) ([]models.ForecastPoint, error) {
	horizon, ok := forecastHorizons[forecastType]
	if !ok {
		horizon = defaultHorizon
	}

	sales, err := s.source.FetchSales(ctx, salesLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetching sales data: %w", err)
	}

	county := ""
	if region != nil {
		county = region.County
	}
	weather := s.weather.FetchWeatherSummary(ctx, county)

	regionName := "Nationwide"
	if county != "" {
		regionName = county
	}

	series, err := PrepareTimeSeries(sales)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			s.logger.Info("serving fallback forecast",
				zap.String("forecastType", forecastType),
				zap.String("region", regionName),
				zap.Int("salesRecords", len(sales)))
			return s.composer.Fallback(forecastType, regionName, weather), nil
		}
		return nil, err
	}

	combined := s.ensemble.Forecast(series, horizon)
	return s.composer.Compose(sales, combined, weather, regionName, s.ensemble.FullyCapable()), nil
}

// GeneratePriceRecommendation recommends a near-term price for a product.
func (s *Service) GeneratePriceRecommendation(ctx context.Context, productID string) (models.PriceRecommendation, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return models.PriceRecommendation{}, fmt.Errorf("product id %q: %w", productID, ErrInvalidIdentifier)
	}

	history, err := s.source.FetchPriceHistory(ctx, productID, priceLookbackDays)
	if err != nil {
		return models.PriceRecommendation{}, fmt.Errorf("fetching price history: %w", err)
	}
	return RecommendPrice(history), nil
}

// GenerateRegionalHeatmap clusters counties by demand intensity.
func (s *Service) GenerateRegionalHeatmap(ctx context.Context) (map[string]models.RegionCluster, error) {
	regions, err := s.source.FetchRegionalSales(ctx, regionLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetching regional sales: %w", err)
	}
	return ClusterRegions(regions), nil
}

// AnalyzeYieldVsDemand reconciles inventory against historical and
// forecasted demand for the products matching the filter. A filter matching
// nothing yields an unsuccessful analysis, not an error.
func (s *Service) AnalyzeYieldVsDemand(ctx context.Context, filter models.ProductFilter, days int) (*models.YieldDemandAnalysis, error) {
	if days <= 0 {
		days = defaultAnalysisDays
	}

	products, err := s.source.FetchActiveProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching active products: %w", err)
	}

	sales, err := s.source.FetchSales(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("fetching sales data: %w", err)
	}

	var region *models.Region
	if filter.County != "" {
		region = &models.Region{County: filter.County}
	}
	forecasts, err := s.GenerateDemandForecast(ctx, "monthly", region)
	if err != nil {
		return nil, err
	}

	analysis, err := Reconcile(ReconcileInput{
		Products:  products,
		Sales:     sales,
		Forecasts: forecasts,
		Filter:    filter,
	})
	if errors.Is(err, ErrNoMatchingProducts) {
		s.logger.Info("yield-vs-demand filter matched no products",
			zap.String("productId", filter.ProductID),
			zap.String("category", filter.Category),
			zap.String("county", filter.County))
		return &models.YieldDemandAnalysis{
			Success: false,
			Message: "No products match the given filters",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// GetFarmerInsights summarizes a farmer's sales activity and attaches the
// demand forecasts relevant to their crop categories.
func (s *Service) GetFarmerInsights(ctx context.Context, farmerID string) (*models.FarmerInsights, error) {
	if _, err := uuid.Parse(farmerID); err != nil {
		return nil, fmt.Errorf("farmer id %q: %w", farmerID, ErrInvalidIdentifier)
	}

	products, err := s.source.FetchFarmerProducts(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("fetching farmer products: %w", err)
	}

	productIDs := make([]string, 0, len(products))
	categories := make(map[string]bool)
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if p.Category != "" {
			categories[p.Category] = true
		}
	}

	var totalSales float64
	var totalOrders int
	if len(productIDs) > 0 {
		totalSales, totalOrders, err = s.source.FetchFarmerSalesStats(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("fetching farmer sales stats: %w", err)
		}
	}

	forecasts, err := s.GenerateDemandForecast(ctx, "monthly", nil)
	if err != nil {
		return nil, err
	}
	relevant := make([]models.ForecastPoint, 0, len(forecasts))
	for _, fp := range forecasts {
		if categories[fp.Crop] {
			relevant = append(relevant, fp)
		}
	}
	if len(relevant) == 0 {
		if len(forecasts) > 5 {
			forecasts = forecasts[:5]
		}
		relevant = forecasts
	}

	return &models.FarmerInsights{
		TotalSales:      totalSales,
		TotalOrders:     totalOrders,
		ActiveProducts:  len(products),
		DemandForecasts: relevant,
		Recommendations: []string{
			"Increase supply for crops with demand scores above 80%",
			"Use AI price guidance before dispatching produce",
			"Diversify inventory to counties with growing demand clusters",
		},
	}, nil
}
