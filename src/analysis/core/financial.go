package core

import "math"

// OHLC summarises a price window.
type OHLC struct {
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AvgPrice float64
}

// -----------------------------------------------------------------------------

// ComputeOHLC calculates open/high/low/close and the mean of prices.
func ComputeOHLC(prices []float64) OHLC {
	if len(prices) == 0 {
		return OHLC{}
	}

	high := -math.MaxFloat64
	low := math.MaxFloat64
	sum := 0.0
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
		sum += p
	}

	return OHLC{
		Open:     prices[0],
		High:     high,
		Low:      low,
		Close:    prices[len(prices)-1],
		AvgPrice: sum / float64(len(prices)),
	}
}

// -----------------------------------------------------------------------------

// CalculateChangePercent returns (current-previous)/previous, or 0 when
// previous is zero.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous
}
