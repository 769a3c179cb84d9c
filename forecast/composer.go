package forecast

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"agrohub-ai/models"
)

// maxForecastCategories caps the forecast response at the top categories by
// total quantity. Ties keep their first-seen input order.
const maxForecastCategories = 7

// fallbackCrops is the fixed staple list served when there is too little
// data for any model path. The shape of fallback output must match real
// output; only the lower confidence tells the two apart.
var fallbackCrops = []string{"Maize", "Beans", "Tomatoes", "Onions", "Potatoes", "Cabbage", "Carrots"}

const (
	baseConfidence     = 75
	minConfidence      = 50
	fallbackConfidence = 55
	priceMarkup        = 1.05
)

// Composer turns a blended demand series plus the raw sales table into
// per-category forecast points.
type Composer struct {
	rng *rand.Rand
}

func NewComposer() *Composer {
	return &Composer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type categoryAgg struct {
	name     string
	quantity int
	records  int
	priceSum float64
}

// Compose builds forecast points for the top categories. Demand is the mean
// of the blended series scaled by the category's quantity share and the
// weather factor, clamped to [30,100]. fullEnsemble reflects whether both
// ensemble sub-models were structurally available.
func (c *Composer) Compose(
	records []models.SalesRecord,
	combined []float64,
	weather models.WeatherSummary,
	region string,
	fullEnsemble bool,
) []models.ForecastPoint {
	totalQuantity := 0
	byCategory := make(map[string]*categoryAgg)
	var order []*categoryAgg
	for _, r := range records {
		totalQuantity += r.Quantity
		agg, ok := byCategory[r.Category]
		if !ok {
			agg = &categoryAgg{name: r.Category}
			byCategory[r.Category] = agg
			order = append(order, agg)
		}
		agg.quantity += r.Quantity
		agg.records++
		agg.priceSum += r.AvgPrice
	}
	if totalQuantity == 0 {
		totalQuantity = 1
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].quantity > order[j].quantity
	})
	if len(order) > maxForecastCategories {
		order = order[:maxForecastCategories]
	}

	factor := weatherFactor(weather)
	seriesMean := mean(combined)

	points := make([]models.ForecastPoint, 0, len(order))
	for _, agg := range order {
		share := float64(agg.quantity) / float64(totalQuantity)
		demand := clamp(seriesMean*share*factor, 30, 100)

		avgPrice := agg.priceSum / float64(agg.records)
		price := round2(avgPrice * priceMarkup)

		confidence := baseConfidence
		if !fullEnsemble {
			confidence -= 10
		}
		if agg.records < 5 {
			confidence -= 10
		}
		if confidence < minConfidence {
			confidence = minConfidence
		}

		crop := agg.name
		if crop == "" {
			crop = "Mixed Produce"
		}

		points = append(points, models.ForecastPoint{
			Crop:                crop,
			Demand:              round2(demand),
			Confidence:          confidence,
			PriceRecommendation: &price,
			Region:              region,
			Weather:             weather,
		})
	}
	return points
}

// Fallback returns the synthetic staple-crop forecast used under cold-start
// or outage conditions.
func (c *Composer) Fallback(forecastType, region string, weather models.WeatherSummary) []models.ForecastPoint {
	seasonalFactor := 1.0
	if forecastType == "seasonal" {
		seasonalFactor = 1.2
	}

	points := make([]models.ForecastPoint, 0, len(fallbackCrops))
	for _, crop := range fallbackCrops {
		base := 70 + (c.rng.Float64()*25 - 10) // uniform in [-10, 15)
		demand := round2(base * seasonalFactor)
		price := round2(demand * 0.8)
		points = append(points, models.ForecastPoint{
			Crop:                crop,
			Demand:              demand,
			Confidence:          fallbackConfidence,
			PriceRecommendation: &price,
			Region:              region,
			Weather:             weather,
		})
	}
	return points
}

// weatherFactor adjusts demand for weather: hot days suppress it slightly,
// likely rain lifts it. Both adjustments are additive on a baseline of 1.
func weatherFactor(w models.WeatherSummary) float64 {
	factor := 1.0
	if w.AvgTemp > 28 {
		factor -= 0.05
	}
	if w.RainChance > 0.6 {
		factor += 0.08
	}
	return factor
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
