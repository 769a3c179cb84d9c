package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"agrohub-ai/cache"
	"agrohub-ai/forecast"
	"agrohub-ai/models"
)

var validForecastTypes = map[string]bool{
	"daily":    true,
	"weekly":   true,
	"monthly":  true,
	"seasonal": true,
}

// HandleHealthCheck reports service liveness.
func HandleHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": "ai-service"})
}

// HandleGetNationwideForecast returns the nationwide demand forecast.
// GET /api/v1/forecasts/nationwide?forecast_type=monthly
func HandleGetNationwideForecast(c *fiber.Ctx) error {
	forecastType := c.Query("forecast_type", "monthly")
	if !validForecastTypes[forecastType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "forecast_type must be one of daily, weekly, monthly, seasonal",
		})
	}

	// Warm snapshots are written by the refresh scheduler; the engine
	// itself never caches.
	if forecasts, ok := cachedNationwide(c, forecastType); ok {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"forecastDate": time.Now(),
				"forecastType": forecastType,
				"scope":        "nationwide",
				"forecasts":    forecasts,
			},
		})
	}

	forecasts, err := svc.GenerateDemandForecast(c.Context(), forecastType, nil)
	if err != nil {
		zap.L().Error("nationwide forecast failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate forecast",
		})
	}
	storeNationwide(c, forecastType, forecasts)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"forecastDate": time.Now(),
			"forecastType": forecastType,
			"scope":        "nationwide",
			"forecasts":    forecasts,
		},
	})
}

// HandleGetRegionalForecast returns a forecast scoped to a county.
// GET /api/v1/forecasts/regional?county=Nakuru&subCounty=...
func HandleGetRegionalForecast(c *fiber.Ctx) error {
	var region *models.Region
	county := c.Query("county")
	subCounty := c.Query("subCounty")
	if county != "" || subCounty != "" {
		region = &models.Region{County: county, SubCounty: subCounty}
	}

	forecasts, err := svc.GenerateDemandForecast(c.Context(), "monthly", region)
	if err != nil {
		zap.L().Error("regional forecast failed", zap.String("county", county), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate forecast",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"forecastDate": time.Now(),
			"region":       region,
			"forecasts":    forecasts,
		},
	})
}

// HandleGetDemandHeatmap returns the regional demand clusters keyed by county.
// GET /api/v1/forecasts/heatmap
func HandleGetDemandHeatmap(c *fiber.Ctx) error {
	heatmap, err := svc.GenerateRegionalHeatmap(c.Context())
	if err != nil {
		zap.L().Error("heatmap generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate heatmap",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": heatmap})
}

// HandleGetPriceRecommendation returns price guidance for a product.
// GET /api/v1/forecasts/price-recommendation/:productId
func HandleGetPriceRecommendation(c *fiber.Ctx) error {
	productID := c.Params("productId")

	recommendation, err := svc.GeneratePriceRecommendation(c.Context(), productID)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidIdentifier) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid product ID",
			})
		}
		zap.L().Error("price recommendation failed", zap.String("productId", productID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate price recommendation",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": recommendation})
}

// HandleGetYieldVsDemand analyzes inventory against demand for the products
// matching the optional filters.
// GET /api/v1/forecasts/yield-vs-demand?product_id=&category=&county=&days=90
func HandleGetYieldVsDemand(c *fiber.Ctx) error {
	filter := models.ProductFilter{
		ProductID: c.Query("product_id"),
		Category:  c.Query("category"),
		County:    c.Query("county"),
	}
	days := c.QueryInt("days", 90)

	analysis, err := svc.AnalyzeYieldVsDemand(c.Context(), filter, days)
	if err != nil {
		zap.L().Error("yield-vs-demand analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to analyze yield vs demand",
		})
	}
	return c.JSON(analysis)
}

func cachedNationwide(c *fiber.Ctx, forecastType string) ([]models.ForecastPoint, bool) {
	if cache.Client == nil {
		return nil, false
	}
	payload, err := cache.Client.Get(c.Context(), cache.NationwideKey(forecastType)).Bytes()
	if err != nil {
		return nil, false
	}
	var forecasts []models.ForecastPoint
	if err := json.Unmarshal(payload, &forecasts); err != nil {
		zap.L().Warn("discarding unreadable cached forecast", zap.Error(err))
		return nil, false
	}
	return forecasts, true
}

func storeNationwide(c *fiber.Ctx, forecastType string, forecasts []models.ForecastPoint) {
	if cache.Client == nil {
		return
	}
	payload, err := json.Marshal(forecasts)
	if err != nil {
		return
	}
	if err := cache.Client.Set(c.Context(), cache.NationwideKey(forecastType), payload, cache.ForecastTTL).Err(); err != nil {
		zap.L().Warn("storing forecast snapshot in redis failed", zap.Error(err))
	}
}
