package forecast

import (
	"sort"
	"time"

	"agrohub-ai/models"
)

// minObservedDays is the minimum number of distinct sales days required
// before any model-backed forecast is attempted.
const minObservedDays = 10

// PrepareTimeSeries collapses raw sales records into a single daily-quantity
// series, sorted ascending by day. Days without sales are not filled in.
// Returns ErrInsufficientData when fewer than minObservedDays distinct days
// are present.
func PrepareTimeSeries(records []models.SalesRecord) ([]models.TimeSeriesPoint, error) {
	totals := make(map[time.Time]float64)
	for _, r := range records {
		day := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
		totals[day] += float64(r.Quantity)
	}

	if len(totals) < minObservedDays {
		return nil, ErrInsufficientData
	}

	series := make([]models.TimeSeriesPoint, 0, len(totals))
	for day, qty := range totals {
		series = append(series, models.TimeSeriesPoint{Timestamp: day, Value: qty})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, nil
}
