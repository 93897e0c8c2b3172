package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/models"
)

func TestCalculateWindowBoundaries(t *testing.T) {
	start, end := CalculateWindowBoundaries(61_500, 60_000)
	assert.Equal(t, int64(60_000), start)
	assert.Equal(t, int64(120_000), end)
}

func TestBuildCandles(t *testing.T) {
	history := []models.MHistoryPoint{
		{Timestamp: 0, Price: 1.0},
		{Timestamp: 20_000, Price: 3.0},
		{Timestamp: 40_000, Price: 2.0},
		// gap: the 60s-120s window is empty
		{Timestamp: 130_000, Price: 4.0},
	}

	candles, err := BuildCandles("7", history, "1m")
	require.NoError(t, err)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, "7", first.TokenID)
	assert.Equal(t, 1.0, first.Open)
	assert.Equal(t, 3.0, first.High)
	assert.Equal(t, 1.0, first.Low)
	assert.Equal(t, 2.0, first.Close)
	assert.InDelta(t, 2.0, first.AvgPrice, 1e-12)
	assert.InDelta(t, 1.0, first.PercentChange, 1e-12)
	assert.Equal(t, 3, first.DataPoints)
	assert.Equal(t, int64(0), first.StartTime)
	assert.Equal(t, int64(60_000), first.EndTime)

	second := candles[1]
	assert.Equal(t, int64(120_000), second.StartTime)
	assert.Equal(t, 1, second.DataPoints)
	assert.Equal(t, 0.0, second.PercentChange)
}

func TestBuildCandles_InvalidWindow(t *testing.T) {
	_, err := BuildCandles("1", nil, "soon")
	assert.Error(t, err)

	_, err = BuildCandles("1", nil, "0s")
	assert.Error(t, err)
}

func TestSummarizeHistory(t *testing.T) {
	mean, std, change := SummarizeHistory([]models.MHistoryPoint{
		{Timestamp: 1, Price: 2},
		{Timestamp: 2, Price: 4},
	})
	assert.InDelta(t, 3.0, mean, 1e-12)
	assert.InDelta(t, 1.0, std, 1e-12)
	assert.InDelta(t, 1.0, change, 1e-12)

	mean, std, change = SummarizeHistory(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
	assert.Zero(t, change)
}
