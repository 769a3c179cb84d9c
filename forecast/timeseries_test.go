package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"agrohub-ai/models"
)

func day(offset int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func salesOn(offset, quantity int) models.SalesRecord {
	return models.SalesRecord{Date: day(offset), Category: "Maize", Quantity: quantity}
}

func TestPrepareTimeSeriesGroupsAndSorts(t *testing.T) {
	var records []models.SalesRecord
	// Two records on the same day must be summed; input arrives unsorted.
	for offset := 9; offset >= 0; offset-- {
		records = append(records, salesOn(offset, 10))
	}
	records = append(records, salesOn(3, 5))

	series, err := PrepareTimeSeries(records)
	assert.NoError(t, err)
	assert.Len(t, series, 10)

	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Timestamp.Before(series[i].Timestamp))
	}
	assert.Equal(t, 15.0, series[3].Value)
	assert.Equal(t, 10.0, series[0].Value)
}

func TestPrepareTimeSeriesDoesNotFillGaps(t *testing.T) {
	var records []models.SalesRecord
	for offset := 0; offset < 20; offset += 2 {
		records = append(records, salesOn(offset, 7))
	}

	series, err := PrepareTimeSeries(records)
	assert.NoError(t, err)
	// 10 observed days over a 20-day span; missing days stay absent.
	assert.Len(t, series, 10)
}

func TestPrepareTimeSeriesInsufficientData(t *testing.T) {
	var records []models.SalesRecord
	for offset := 0; offset < 9; offset++ {
		records = append(records, salesOn(offset, 10))
	}

	_, err := PrepareTimeSeries(records)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PrepareTimeSeries(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
