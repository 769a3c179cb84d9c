package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"agrohub-ai/config"
	"agrohub-ai/forecast"
	"agrohub-ai/models"
)

// HandleGetFarmerInsights returns a farmer's activity summary with relevant
// demand forecasts. When a Gemini key is configured, a generated narrative
// is attached; the static recommendations always remain the fallback.
// GET /api/v1/forecasts/farmer-insights/:farmerId
func HandleGetFarmerInsights(c *fiber.Ctx) error {
	farmerID := c.Params("farmerId")

	insights, err := svc.GetFarmerInsights(c.Context(), farmerID)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidIdentifier) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid farmer ID",
			})
		}
		zap.L().Error("farmer insights failed", zap.String("farmerId", farmerID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate farmer insights",
		})
	}

	if config.AppConfig.GeminiAPIKey != "" {
		narrative, err := generateNarrative(c.Context(), insights)
		if err != nil {
			zap.L().Warn("insight narrative generation failed", zap.Error(err))
		} else {
			insights.Narrative = narrative
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": insights})
}

// generateNarrative asks Gemini for a short advisory paragraph over the
// already-computed aggregates. It never feeds raw data to the model.
func generateNarrative(ctx context.Context, insights *models.FarmerInsights) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	var crops []string
	for _, fp := range insights.DemandForecasts {
		crops = append(crops, fmt.Sprintf("%s (demand %.0f, confidence %d%%)", fp.Crop, fp.Demand, fp.Confidence))
	}

	prompt := fmt.Sprintf(
		`You are an agricultural market advisor. In at most four sentences, advise a farmer with %d active products, %d completed orders and total sales of %.2f. Current demand forecasts for their crops: %s.`,
		insights.ActiveProducts, insights.TotalOrders, insights.TotalSales, strings.Join(crops, "; "),
	)

	model := client.GenerativeModel("gemini-1.5-pro")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty narrative response")
	}
	return strings.TrimSpace(fmt.Sprint(resp.Candidates[0].Content.Parts[0])), nil
}
