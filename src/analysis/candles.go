package analysis

import (
	"fmt"
	"time"

	"token-pulse/src/analysis/core"
	"token-pulse/src/models"
)

// -----------------------------------------------------------------------------

// CalculateWindowBoundaries aligns ts (millis) to the window grid.
func CalculateWindowBoundaries(ts int64, windowMs int64) (int64, int64) {
	start := ts - (ts % windowMs)
	return start, start + windowMs
}

// -----------------------------------------------------------------------------

// BuildCandles buckets a token's history into aligned OHLC windows.
// History must be oldest first; empty windows are skipped.
func BuildCandles(tokenID string, history []models.MHistoryPoint, window string) ([]models.MCandle, error) {
	dur, err := time.ParseDuration(window)
	if err != nil {
		return nil, fmt.Errorf("invalid window %q: %w", window, err)
	}
	windowMs := dur.Milliseconds()
	if windowMs <= 0 {
		return nil, fmt.Errorf("window %q must be at least 1ms", window)
	}

	var candles []models.MCandle
	var bucket []float64
	var bucketStart, bucketEnd int64

	flush := func() {
		if len(bucket) == 0 {
			return
		}
		ohlc := core.ComputeOHLC(bucket)
		candles = append(candles, models.MCandle{
			TokenID:       tokenID,
			Window:        window,
			Open:          ohlc.Open,
			High:          ohlc.High,
			Low:           ohlc.Low,
			Close:         ohlc.Close,
			AvgPrice:      ohlc.AvgPrice,
			PercentChange: core.CalculateChangePercent(ohlc.Close, ohlc.Open),
			StartTime:     bucketStart,
			EndTime:       bucketEnd,
			DataPoints:    len(bucket),
		})
		bucket = bucket[:0]
	}

	for _, p := range history {
		if len(bucket) == 0 || p.Timestamp >= bucketEnd {
			flush()
			bucketStart, bucketEnd = CalculateWindowBoundaries(p.Timestamp, windowMs)
		}
		bucket = append(bucket, p.Price)
	}
	flush()

	return candles, nil
}

// -----------------------------------------------------------------------------

// SummarizeHistory returns mean, std and first-to-last percent change.
func SummarizeHistory(history []models.MHistoryPoint) (mean, std, change float64) {
	if len(history) == 0 {
		return 0, 0, 0
	}
	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Price
	}
	mean, std = core.CalculateMeanStd(prices)
	change = core.CalculateChangePercent(prices[len(prices)-1], prices[0])
	return mean, std, change
}
