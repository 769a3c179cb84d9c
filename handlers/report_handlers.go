package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"agrohub-ai/models"
)

// HandleDownloadForecastCSV streams the current forecast as a CSV report.
// The report layer only formats already-computed forecasts.
// GET /api/v1/reports/download/csv?forecast_type=&county=&subCounty=
func HandleDownloadForecastCSV(c *fiber.Ctx) error {
	forecastType := c.Query("forecast_type", "monthly")
	if !validForecastTypes[forecastType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "forecast_type must be one of daily, weekly, monthly, seasonal",
		})
	}

	var region *models.Region
	scope := "nationwide"
	county := c.Query("county")
	subCounty := c.Query("subCounty")
	if county != "" || subCounty != "" {
		region = &models.Region{County: county, SubCounty: subCounty}
		if county != "" {
			scope = "county"
		}
	}

	forecasts, err := svc.GenerateDemandForecast(c.Context(), forecastType, region)
	if err != nil {
		zap.L().Error("forecast CSV generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate forecast report",
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{
		"Crop/Product",
		"Demand Score",
		"Price Recommendation (KES)",
		"Confidence (%)",
		"Region",
		"Forecast Date",
		"Forecast Type",
	}
	if err := writer.Write(header); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to render report",
		})
	}

	today := time.Now().Format("2006-01-02")
	for _, fp := range forecasts {
		price := "0"
		if fp.PriceRecommendation != nil {
			price = strconv.FormatFloat(*fp.PriceRecommendation, 'f', 2, 64)
		}
		record := []string{
			fp.Crop,
			strconv.FormatFloat(fp.Demand, 'f', 2, 64),
			price,
			strconv.Itoa(fp.Confidence),
			fp.Region,
			today,
			forecastType,
		}
		if err := writer.Write(record); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to render report",
			})
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to render report",
		})
	}

	filename := fmt.Sprintf("forecast_%s_%s_%s.csv", scope, forecastType, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}
