package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agrohub-ai/models"
)

func TestSequenceStrategyGate(t *testing.T) {
	var s sequenceStrategy

	_, ok := s.Produce(constantSeries(29, 10), 7)
	assert.False(t, ok)

	out, ok := s.Produce(constantSeries(30, 10), 7)
	assert.True(t, ok)
	assert.Len(t, out, 7)
}

func TestSequenceStrategyOutputsNonNegative(t *testing.T) {
	series := make([]models.TimeSeriesPoint, 45)
	for i := range series {
		// A noisy-looking but deterministic sawtooth.
		series[i] = models.TimeSeriesPoint{Timestamp: day(i), Value: float64(5 + i%7*3)}
	}

	var s sequenceStrategy
	out, ok := s.Produce(series, 30)
	assert.True(t, ok)
	assert.Len(t, out, 30)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestSequenceStrategyDeterministic(t *testing.T) {
	series := constantSeries(40, 50)

	var s sequenceStrategy
	first, ok := s.Produce(series, 10)
	assert.True(t, ok)
	second, ok := s.Produce(series, 10)
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSequenceStrategyAllZeroSeries(t *testing.T) {
	var s sequenceStrategy
	out, ok := s.Produce(constantSeries(35, 0), 5)
	assert.True(t, ok)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}
