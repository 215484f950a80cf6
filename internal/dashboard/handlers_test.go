package dashboard

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"StockDashboard/internal/chart"
	"StockDashboard/internal/collector"
	"StockDashboard/internal/config"
	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	recorder.NoopRecorder
	mu      sync.Mutex
	renders []recorder.RenderEvent
}

func (c *captureRecorder) RecordRender(evt *recorder.RenderEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renders = append(c.renders, *evt)
	return nil
}

func (c *captureRecorder) last(t *testing.T) recorder.RenderEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.renders)
	return c.renders[len(c.renders)-1]
}

func newTestServer(t *testing.T, fetcher collector.Fetcher, healthy func() bool) (*Server, *captureRecorder) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	rec := &captureRecorder{}
	s, err := NewServer(cfg, collector.NewCollector(fetcher), rec, healthy)
	require.NoError(t, err)
	return s, rec
}

func do(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeCharts(t *testing.T, w *httptest.ResponseRecorder) Response[Charts] {
	t.Helper()
	var resp Response[Charts]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetCharts_Defaults(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{Price: 100}, nil)

	w := do(t, s.Handler(), "/api/v1/charts", map[string]string{"X-Request-ID": "req-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	resp := decodeCharts(t, w)
	assert.Equal(t, "req-1", resp.Meta.RequestID)
	assert.Equal(t, "mock", resp.Meta.Provider)
	assert.Equal(t, "AAPL", resp.Meta.Symbol)
	assert.Equal(t, 10, resp.Meta.Window)
	assert.Greater(t, resp.Meta.Rows, 200)
	assert.Empty(t, resp.Meta.Warnings)

	price := resp.Data.Price
	require.Len(t, price.Data, 2)
	assert.Equal(t, "candlestick", price.Data[0].Type)
	assert.Equal(t, "10-Day Moving Average", price.Data[1].Name)
	assert.Equal(t, "AAPL Stock Price Analysis", price.Layout.Title.Text)
	assert.False(t, price.Data[1].Y[0].Valid)
	assert.True(t, price.Data[1].Y[9].Valid)

	require.Len(t, resp.Data.Average.Data, 1)
	assert.Equal(t, "pie", resp.Data.Average.Data[0].Type)
	assert.Equal(t, []string{"Open", "Close", "High", "Low"}, resp.Data.Average.Data[0].Labels)

	require.Len(t, resp.Data.Earnings.Data, 1)
	assert.Equal(t, "bar", resp.Data.Earnings.Data[0].Type)
	assert.Len(t, resp.Data.Earnings.Data[0].Y, resp.Meta.Rows)

	evt := rec.last(t)
	assert.Equal(t, recorder.StatusOK, evt.Status)
	assert.Equal(t, "req-1", evt.RequestID)
	assert.NotEqual(t, "req-1", evt.ID)
	assert.Equal(t, resp.Meta.Rows, evt.Rows)
}

func TestGetCharts_RepeatedRequestIDIsJournaled(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	rec, err := recorder.NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })

	s, err := NewServer(cfg, collector.NewCollector(&collector.MockFetcher{Price: 100}), rec, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := do(t, s.Handler(), "/api/v1/charts", map[string]string{"X-Request-ID": "same"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var rows, ids int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT id) FROM renders WHERE request_id = 'same'`).Scan(&rows, &ids))
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, ids)
}

func TestGetCharts_LineStyleAndScheme(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Price: 50}, nil)

	w := do(t, s.Handler(), "/api/v1/charts?symbol=TSLA&style=line&scheme=blue_orange&window=5&interval=1wk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCharts(t, w)
	assert.Equal(t, "TSLA", resp.Meta.Symbol)
	assert.Equal(t, "1wk", resp.Meta.Interval)

	price := resp.Data.Price
	require.Len(t, price.Data, 2)
	assert.Equal(t, "Closing Price", price.Data[0].Name)
	assert.Equal(t, "blue", price.Data[0].Line.Color)
	assert.Equal(t, "orange", price.Data[1].Line.Color)
	assert.Equal(t, "5-Day Moving Average", price.Data[1].Name)
	assert.Equal(t, "blue", resp.Data.Earnings.Data[0].Marker.Color)
}

func TestGetCharts_BadParams(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{}, nil)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"window too large", "window=31", "window"},
		{"window zero", "window=0", "window"},
		{"window not a number", "window=ten", "window"},
		{"unknown symbol", "symbol=XYZ", "symbol"},
		{"unknown scheme", "scheme=purple", "scheme"},
		{"start after end", "start=2021-06-01&end=2021-05-01", "start"},
		{"before first date", "start=2010-01-01", "start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), "/api/v1/charts?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp.Field)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
	assert.Empty(t, rec.renders)
}

func TestGetCharts_ProviderDown(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{Err: errors.New("connection refused")}, nil)

	w := do(t, s.Handler(), "/api/v1/charts?symbol=MSFT", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCharts(t, w)
	assert.Equal(t, 0, resp.Meta.Rows)
	require.Len(t, resp.Meta.Warnings, 1)
	assert.Contains(t, resp.Meta.Warnings[0], "connection refused")

	assert.Equal(t, "MSFT Stock Price Analysis", resp.Data.Price.Layout.Title.Text)
	assert.Equal(t, "MSFT Average Stock Values", resp.Data.Average.Layout.Title.Text)
	assert.Equal(t, "Earnings Comparison for MSFT", resp.Data.Earnings.Layout.Title.Text)
	for _, fig := range []chart.Figure{resp.Data.Price, resp.Data.Average, resp.Data.Earnings} {
		assert.Empty(t, fig.Data)
		require.Len(t, fig.Layout.Annotations, 1)
		assert.Equal(t, "Market data for MSFT is unavailable right now", fig.Layout.Annotations[0].Text)
	}

	evt := rec.last(t)
	assert.Equal(t, recorder.StatusUnavailable, evt.Status)
	assert.Contains(t, evt.Error, "connection refused")
}

func TestGetCharts_EmptyRange(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{Bars: []model.OHLCV{}}, nil)

	w := do(t, s.Handler(), "/api/v1/charts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCharts(t, w)
	assert.Empty(t, resp.Data.Price.Data)
	require.NotEmpty(t, resp.Meta.Warnings)
	assert.Equal(t, recorder.StatusUnavailable, rec.last(t).Status)
}

func TestGetOptions(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{}, nil)

	w := do(t, s.Handler(), "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response[Options]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Symbols, 10)
	assert.Len(t, resp.Data.ColorSchemes, 9)
	assert.Len(t, resp.Data.PlotStyles, 2)
	assert.Len(t, resp.Data.Intervals, 3)
	assert.Equal(t, "2015-01-01", resp.Data.MinDate)
	assert.Equal(t, "2022-01-01", resp.Data.MaxDate)
	assert.Equal(t, 1, resp.Data.MinWindow)
	assert.Equal(t, 30, resp.Data.MaxWindow)
	assert.Equal(t, Selection{
		Symbol:   "AAPL",
		Start:    "2021-01-01",
		End:      "2022-01-01",
		Style:    "candlestick",
		Scheme:   "green_red",
		Window:   10,
		Interval: "1d",
	}, resp.Data.Defaults)
}

func TestGetHealth(t *testing.T) {
	healthy := true
	s, _ := newTestServer(t, &collector.MockFetcher{}, func() bool { return healthy })

	var body map[string]string
	w := do(t, s.Handler(), "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mock", body["provider"])

	healthy = false
	w = do(t, s.Handler(), "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestGetIndex(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{}, nil)

	w := do(t, s.Handler(), "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	page := w.Body.String()
	assert.Contains(t, page, "Stock Price Analysis Dashboard")
	assert.Contains(t, page, `value="AAPL" selected`)
	assert.Contains(t, page, `value="green_red" selected`)
	assert.Contains(t, page, `id="window" min="1" max="30"`)
	assert.Contains(t, page, "/api/v1/charts")
	// ten symbols plus nine color schemes
	assert.Equal(t, 19, strings.Count(page, "<option value="))
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{}, nil)
	w := do(t, s.Handler(), "/api/v1/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charts", nil)
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rw.Code)
}

func TestZstdMiddleware(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{}, nil)

	w := do(t, s.Handler(), "/api/v1/options", map[string]string{"Accept-Encoding": "gzip, zstd"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "zstd", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	dec, err := zstd.NewReader(w.Body)
	require.NoError(t, err)
	defer dec.Close()

	var resp Response[Options]
	require.NoError(t, json.NewDecoder(dec).Decode(&resp))
	assert.Len(t, resp.Data.Symbols, 10)

	plain := do(t, s.Handler(), "/api/v1/options", nil)
	assert.Empty(t, plain.Header().Get("Content-Encoding"))
}
