package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
)

// ErrNoData is returned when a calculation receives no values.
var ErrNoData = errors.New("no data")

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingSMA returns the simple moving average ending at every index of prices.
// Positions before the window fills are left invalid (absent), never zero.
func RollingSMA(prices []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]null.Float, len(prices))
	for i := period - 1; i < len(prices); i++ {
		// sum each window directly, no running total
		sma, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			return nil, err
		}
		out[i] = null.FloatFrom(sma)
	}
	return out, nil
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoData
	}
	return CalculateSMA(values, len(values))
}
