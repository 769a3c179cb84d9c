package forecast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"agrohub-ai/models"
)

func record(category string, quantity int, price float64) models.SalesRecord {
	return models.SalesRecord{Date: day(0), Category: category, Quantity: quantity, AvgPrice: price}
}

func TestWeatherFactor(t *testing.T) {
	assert.InDelta(t, 1.0, weatherFactor(models.WeatherSummary{AvgTemp: 24, RainChance: 0.3}), 1e-9)
	assert.InDelta(t, 0.95, weatherFactor(models.WeatherSummary{AvgTemp: 30, RainChance: 0.3}), 1e-9)
	assert.InDelta(t, 1.08, weatherFactor(models.WeatherSummary{AvgTemp: 24, RainChance: 0.7}), 1e-9)
	assert.InDelta(t, 1.03, weatherFactor(models.WeatherSummary{AvgTemp: 30, RainChance: 0.7}), 1e-9)
}

func TestComposeAppliesShareAndWeather(t *testing.T) {
	records := []models.SalesRecord{record("Maize", 10, 40)}
	combined := []float64{50, 50, 50, 50}
	weather := models.WeatherSummary{AvgTemp: 30, RainChance: 0.7}

	points := NewComposer().Compose(records, combined, weather, "Nakuru", true)
	assert.Len(t, points, 1)

	p := points[0]
	assert.Equal(t, "Maize", p.Crop)
	// Single category owns the full share: 50 * 1.0 * 1.03.
	assert.InDelta(t, 51.5, p.Demand, 1e-9)
	assert.Equal(t, "Nakuru", p.Region)
	assert.Equal(t, weather, p.Weather)
	if assert.NotNil(t, p.PriceRecommendation) {
		assert.InDelta(t, 42.0, *p.PriceRecommendation, 1e-9)
	}
}

func TestComposeClampsDemand(t *testing.T) {
	low := NewComposer().Compose(
		[]models.SalesRecord{record("Beans", 1, 10)},
		[]float64{2, 2}, models.WeatherSummary{}, "Nationwide", true)
	assert.Equal(t, 30.0, low[0].Demand)

	high := NewComposer().Compose(
		[]models.SalesRecord{record("Beans", 1, 10)},
		[]float64{500, 500}, models.WeatherSummary{}, "Nationwide", true)
	assert.Equal(t, 100.0, high[0].Demand)
}

func TestComposeConfidenceTiers(t *testing.T) {
	manyRecords := make([]models.SalesRecord, 6)
	for i := range manyRecords {
		manyRecords[i] = record("Maize", 10, 40)
	}
	fewRecords := []models.SalesRecord{record("Maize", 10, 40)}
	combined := []float64{60}

	full := NewComposer().Compose(manyRecords, combined, models.WeatherSummary{}, "Nationwide", true)
	assert.Equal(t, 75, full[0].Confidence)

	degraded := NewComposer().Compose(manyRecords, combined, models.WeatherSummary{}, "Nationwide", false)
	assert.Equal(t, 65, degraded[0].Confidence)

	sparse := NewComposer().Compose(fewRecords, combined, models.WeatherSummary{}, "Nationwide", true)
	assert.Equal(t, 65, sparse[0].Confidence)

	worst := NewComposer().Compose(fewRecords, combined, models.WeatherSummary{}, "Nationwide", false)
	assert.Equal(t, 55, worst[0].Confidence)
}

func TestComposeKeepsTopCategories(t *testing.T) {
	var records []models.SalesRecord
	for i := 0; i < 9; i++ {
		records = append(records, record(fmt.Sprintf("Crop%d", i), 10+i, 20))
	}

	points := NewComposer().Compose(records, []float64{80}, models.WeatherSummary{}, "Nationwide", true)
	assert.Len(t, points, 7)
	// Largest quantity first; the two smallest categories are dropped.
	assert.Equal(t, "Crop8", points[0].Crop)
	for _, p := range points {
		assert.NotEqual(t, "Crop0", p.Crop)
		assert.NotEqual(t, "Crop1", p.Crop)
	}
}

func TestComposeUnknownCategoryName(t *testing.T) {
	points := NewComposer().Compose(
		[]models.SalesRecord{record("", 5, 25)},
		[]float64{60}, models.WeatherSummary{}, "Nationwide", true)
	assert.Equal(t, "Mixed Produce", points[0].Crop)
}

func TestFallbackShape(t *testing.T) {
	weather := models.WeatherSummary{AvgTemp: 24, Humidity: 65, RainChance: 0.3}
	points := NewComposer().Fallback("monthly", "Nationwide", weather)

	assert.Len(t, points, 7)
	for i, p := range points {
		assert.Equal(t, fallbackCrops[i], p.Crop)
		assert.Equal(t, 55, p.Confidence)
		assert.GreaterOrEqual(t, p.Demand, 60.0)
		assert.Less(t, p.Demand, 85.0)
		assert.Equal(t, "Nationwide", p.Region)
		assert.Equal(t, weather, p.Weather)
		if assert.NotNil(t, p.PriceRecommendation) {
			assert.InDelta(t, p.Demand*0.8, *p.PriceRecommendation, 0.01)
		}
	}
}

func TestFallbackSeasonalLift(t *testing.T) {
	points := NewComposer().Fallback("seasonal", "Nationwide", models.WeatherSummary{})
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Demand, 60.0*1.2)
		assert.Less(t, p.Demand, 85.0*1.2)
	}
}
