package collector

import (
	"context"
	"math"
	"time"

	"StockDashboard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, req FetchRequest) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, req), nil
}

// generateMockBars produces a deterministic gently oscillating series covering
// the requested range, skipping weekends for daily bars.
func generateMockBars(basePrice float64, req FetchRequest) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.OHLCV
	i := 0
	for t := req.Start; !t.After(req.End); t = step(t, req.Interval) {
		if req.Interval == model.Interval1Day && (t.Weekday() == time.Saturday || t.Weekday() == time.Sunday) {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/6))
		open := p * (1 + 0.004*math.Cos(float64(i)))
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   open,
			High:   math.Max(open, p) * 1.005,
			Low:    math.Min(open, p) * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

func step(t time.Time, interval model.Interval) time.Time {
	switch interval {
	case model.Interval1Week:
		return t.AddDate(0, 0, 7)
	case model.Interval1Month:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
