package calculator

import (
	"math"

	"StockDashboard/internal/model"
)

// CalculatePriceRange scans all bars and returns the highest high and lowest low.
func CalculatePriceRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrNoData
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// PaddedRange widens [low, high] by frac of its span on each side.
// A flat range is widened by frac of its level instead.
func PaddedRange(high, low, frac float64) (float64, float64) {
	span := high - low
	if span <= 0 {
		span = math.Abs(high)
	}
	return low - span*frac, high + span*frac
}
