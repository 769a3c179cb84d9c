package forecast

import (
	"math/rand"
	"sort"

	"agrohub-ai/models"
)

const (
	priceForestSize     = 150
	priceMinHistory     = 5
	priceRollingWindow  = 5
	priceTrendLookahead = 7

	priceModelConfidence   = 85
	priceAverageConfidence = 45
)

// RecommendPrice fits a tree ensemble on calendar and rolling-window
// features of a product's price history and predicts one step ahead, with
// the trend index advanced a week. Short histories fall back to the plain
// mean at reduced confidence; an empty history yields no recommendation.
func RecommendPrice(history []models.PricePoint) models.PriceRecommendation {
	if len(history) == 0 {
		return models.PriceRecommendation{Confidence: 0}
	}

	sorted := append([]models.PricePoint(nil), history...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	if len(sorted) < priceMinHistory {
		avg := round2(meanPrice(sorted))
		return models.PriceRecommendation{
			RecommendedPrice: &avg,
			Confidence:       priceAverageConfidence,
			CurrentAvg:       &avg,
		}
	}

	features := make([][]float64, len(sorted))
	targets := make([]float64, len(sorted))
	for i, p := range sorted {
		features[i] = []float64{
			float64(p.Date.Weekday()),
			float64(p.Date.Month()),
			float64(i),
			rollingMean(sorted, i),
		}
		targets[i] = p.Price
	}

	forest := newForestRegressor(priceForestSize, features, targets, rand.New(rand.NewSource(42)))

	last := sorted[len(sorted)-1]
	future := []float64{
		float64(last.Date.Weekday()),
		float64(last.Date.Month()),
		float64(len(sorted) + priceTrendLookahead),
		rollingMean(sorted, len(sorted)-1),
	}
	predicted := round2(forest.predict(future))
	currentAvg := round2(meanPrice(sorted[len(sorted)-priceRollingWindow:]))

	return models.PriceRecommendation{
		RecommendedPrice: &predicted,
		Confidence:       priceModelConfidence,
		CurrentAvg:       &currentAvg,
	}
}

// rollingMean averages the prices in the window ending at index i, shrinking
// the window at the start of the history.
func rollingMean(points []models.PricePoint, i int) float64 {
	start := i - priceRollingWindow + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, p := range points[start : i+1] {
		sum += p.Price
	}
	return sum / float64(i+1-start)
}

func meanPrice(points []models.PricePoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Price
	}
	return sum / float64(len(points))
}
