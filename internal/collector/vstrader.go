package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockDashboard/internal/model"

	json "github.com/goccy/go-json"
)

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *VsTraderFetcher {
	return &VsTraderFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

var vsIntervals = map[model.Interval]string{
	model.Interval1Day:   "daily",
	model.Interval1Week:  "weekly",
	model.Interval1Month: "monthly",
}

func (f *VsTraderFetcher) FetchBars(ctx context.Context, req FetchRequest) ([]model.OHLCV, error) {
	bars, err := f.fetchBars(ctx, f.endpoint(req, req.Interval))
	if err == nil || req.Interval == model.Interval1Day {
		return bars, err
	}
	// Fallback: fetch daily bars and aggregate them to the requested interval
	daily, dailyErr := f.fetchBars(ctx, f.endpoint(req, model.Interval1Day))
	if dailyErr != nil {
		return nil, fmt.Errorf("%s fetch failed: %w; daily fallback also failed: %w", req.Interval, err, dailyErr)
	}
	if req.Interval == model.Interval1Week {
		return aggregateBars(daily, weekKey), nil
	}
	return aggregateBars(daily, monthKey), nil
}

func (f *VsTraderFetcher) endpoint(req FetchRequest, interval model.Interval) string {
	q := url.Values{}
	q.Set("symbol", string(req.Symbol))
	q.Set("from", req.Start.Format(model.DateLayout))
	q.Set("to", req.End.Format(model.DateLayout))
	return fmt.Sprintf("%s/api/v1/bars/%s?%s", f.BaseURL, vsIntervals[interval], q.Encode())
}

func (f *VsTraderFetcher) fetchBars(ctx context.Context, endpoint string) ([]model.OHLCV, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var vsBars []vsBar
	if err := json.NewDecoder(resp.Body).Decode(&vsBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.OHLCV, len(vsBars))
	for i, vb := range vsBars {
		bars[i] = model.OHLCV{
			Time:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	return normalize(bars), nil
}

func weekKey(t time.Time) int {
	year, isoWeek := t.ISOWeek()
	return year*100 + isoWeek
}

func monthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

// aggregateBars merges chronologically ordered daily bars that share a bucket
// key into one bar stamped with the bucket's first day.
func aggregateBars(daily []model.OHLCV, key func(time.Time) int) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var out []model.OHLCV
	cur := daily[0]
	curKey := key(cur.Time)

	for _, d := range daily[1:] {
		if k := key(d.Time); k != curKey {
			out = append(out, cur)
			cur, curKey = d, k
			continue
		}
		if d.High > cur.High {
			cur.High = d.High
		}
		if d.Low < cur.Low {
			cur.Low = d.Low
		}
		cur.Close = d.Close
		cur.Volume += d.Volume
	}
	return append(out, cur)
}
