package collector

import (
	"context"
	"sort"
	"time"

	"StockDashboard/internal/model"
)

// Collector fetches bars for validated chart parameters and enforces the
// series ordering invariant.
type Collector struct {
	Fetcher Fetcher
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, now: time.Now}
}

// Name returns the name of the underlying provider.
func (c *Collector) Name() string { return c.Fetcher.Name() }

// Collect fetches a fresh series for p. Any provider failure, including an
// empty result, is returned as an *UnavailableError.
func (c *Collector) Collect(ctx context.Context, p model.ChartParams) (model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchBars(ctx, FetchRequest{
		Symbol:   p.Symbol,
		Start:    p.Start,
		End:      p.End,
		Interval: p.Interval,
	})
	if err != nil {
		return model.PriceSeries{}, &UnavailableError{Provider: c.Name(), Symbol: string(p.Symbol), Err: err}
	}
	bars = normalize(bars)
	if len(bars) == 0 {
		return model.PriceSeries{}, &UnavailableError{Provider: c.Name(), Symbol: string(p.Symbol), Err: ErrNoData}
	}
	return model.PriceSeries{
		Symbol:    p.Symbol,
		Interval:  p.Interval,
		Bars:      bars,
		FetchedAt: c.now(),
	}, nil
}

// Probe fetches the last two weeks of daily bars for symbol to check that the
// provider is answering.
func (c *Collector) Probe(ctx context.Context, symbol model.Symbol) error {
	end := c.now().UTC().Truncate(24 * time.Hour)
	_, err := c.Collect(ctx, model.ChartParams{
		Symbol:   symbol,
		Start:    end.AddDate(0, 0, -14),
		End:      end,
		Interval: model.Interval1Day,
	})
	return err
}

// normalize sorts bars chronologically and drops duplicate timestamps,
// keeping the last bar seen for each.
func normalize(bars []model.OHLCV) []model.OHLCV {
	if len(bars) == 0 {
		return bars
	}
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:1]
	for _, b := range sorted[1:] {
		if b.Time.Equal(out[len(out)-1].Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
