package forecast

import "agrohub-ai/models"

const seasonalMinPoints = 10

// seasonalTrendStrategy fits a least-squares linear trend and multiplicative
// weekly seasonal indices, then projects both over the horizon. Yearly
// seasonality is deliberately not modeled; a few months of history cannot
// estimate it reliably.
type seasonalTrendStrategy struct{}

func (seasonalTrendStrategy) Name() string { return "seasonal-trend" }

func (seasonalTrendStrategy) Produce(series []models.TimeSeriesPoint, horizon int) ([]float64, bool) {
	if len(series) < seasonalMinPoints {
		return nil, false
	}

	slope, intercept := linearFit(series)

	// Weekly indices: average ratio of observed value to fitted trend,
	// per weekday. Weekdays never observed, or observed only where the
	// trend is non-positive, keep a neutral index of 1.
	var ratioSum, ratioCount [7]float64
	for i, p := range series {
		fitted := intercept + slope*float64(i)
		if fitted <= 0 {
			continue
		}
		wd := int(p.Timestamp.Weekday())
		ratioSum[wd] += p.Value / fitted
		ratioCount[wd]++
	}
	var index [7]float64
	for wd := 0; wd < 7; wd++ {
		if ratioCount[wd] > 0 {
			index[wd] = ratioSum[wd] / ratioCount[wd]
		} else {
			index[wd] = 1
		}
	}

	lastDay := series[len(series)-1].Timestamp
	out := make([]float64, horizon)
	for i := range out {
		day := lastDay.AddDate(0, 0, i+1)
		trend := intercept + slope*float64(len(series)+i)
		out[i] = trend * index[int(day.Weekday())]
	}
	return out, true
}

func linearFit(series []models.TimeSeriesPoint) (slope, intercept float64) {
	n := float64(len(series))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
