package collector

import (
	"context"
	"time"

	"StockDashboard/internal/model"
)

// FetchRequest selects the bars to fetch. End is inclusive.
type FetchRequest struct {
	Symbol   model.Symbol
	Start    time.Time
	End      time.Time
	Interval model.Interval
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(ctx context.Context, req FetchRequest) ([]model.OHLCV, error)
	Name() string
}
