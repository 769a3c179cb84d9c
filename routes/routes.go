package routes

import (
	"github.com/gofiber/fiber/v2"

	"agrohub-ai/handlers"
	"agrohub-ai/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Get("/health", handlers.HandleHealthCheck)

	api := app.Group("/api/v1")

	// --- Forecast Routes ---
	forecasts := api.Group("/forecasts")
	forecasts.Get("/nationwide", handlers.HandleGetNationwideForecast)
	forecasts.Get("/regional", handlers.HandleGetRegionalForecast)
	forecasts.Get("/heatmap", handlers.HandleGetDemandHeatmap)
	forecasts.Get("/price-recommendation/:productId", handlers.HandleGetPriceRecommendation)
	forecasts.Get("/farmer-insights/:farmerId", handlers.HandleGetFarmerInsights)
	forecasts.Get("/yield-vs-demand", handlers.HandleGetYieldVsDemand)

	// --- Report Routes ---
	reports := api.Group("/reports")
	reports.Get("/download/csv", handlers.HandleDownloadForecastCSV)

	// --- Admin Routes ---
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)
	admin.Put("/forecasts/:forecastId/override", handlers.HandleOverrideForecast)
	admin.Get("/audit-logs", handlers.HandleGetAuditLogs)
}
