package forecast

import "agrohub-ai/models"

// Strategy is one way of producing a horizon-length demand forecast from an
// observed series. Produce reports false when the strategy cannot run on the
// given series (too few points, window too small); the ensemble then moves
// on without it.
type Strategy interface {
	Name() string
	Produce(series []models.TimeSeriesPoint, horizon int) ([]float64, bool)
}
