package forecast

import (
	"go.uber.org/zap"

	"agrohub-ai/models"
)

// Ensemble combines the forecast strategies that are able to run on a given
// series. When several produce values the results are averaged elementwise
// with equal weights; no per-model confidence signal exists at this data
// volume. When none produce values the forecast degrades to repeating the
// recent mean. Forecast never fails.
type Ensemble struct {
	strategies []Strategy
	full       bool
	logger     *zap.Logger
}

// NewEnsemble builds an ensemble from explicit capability flags. The flags
// replace any ambient probing of model availability so both combinations
// stay testable.
func NewEnsemble(sequenceEnabled, seasonalEnabled bool, logger *zap.Logger) *Ensemble {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Ensemble{
		full:   sequenceEnabled && seasonalEnabled,
		logger: logger,
	}
	if sequenceEnabled {
		e.strategies = append(e.strategies, sequenceStrategy{})
	}
	if seasonalEnabled {
		e.strategies = append(e.strategies, seasonalTrendStrategy{})
	}
	return e
}

// FullyCapable reports whether both sub-models are structurally available.
// The composer lowers confidence when this is false.
func (e *Ensemble) FullyCapable() bool { return e.full }

// Forecast produces a horizon-length demand forecast. The series must be
// non-empty; PrepareTimeSeries guarantees that for all callers.
func (e *Ensemble) Forecast(series []models.TimeSeriesPoint, horizon int) []float64 {
	var produced [][]float64
	for _, s := range e.strategies {
		out, ok := s.Produce(series, horizon)
		if !ok {
			e.logger.Debug("forecast strategy unavailable for series",
				zap.String("strategy", s.Name()),
				zap.Int("points", len(series)))
			continue
		}
		produced = append(produced, out)
	}

	if len(produced) == 0 {
		return baselineForecast(series, horizon)
	}

	combined := make([]float64, horizon)
	for i := range combined {
		var sum float64
		for _, out := range produced {
			sum += out[i]
		}
		combined[i] = sum / float64(len(produced))
	}
	return combined
}

// baselineForecast repeats the mean of the last 7 observations, or of the
// whole series when it is shorter.
func baselineForecast(series []models.TimeSeriesPoint, horizon int) []float64 {
	window := series
	if len(series) >= 7 {
		window = series[len(series)-7:]
	}
	var sum float64
	for _, p := range window {
		sum += p.Value
	}
	mean := sum / float64(len(window))

	out := make([]float64, horizon)
	for i := range out {
		out[i] = mean
	}
	return out
}
