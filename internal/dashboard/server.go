// Package dashboard serves the single-page stock dashboard and the JSON API
// the page calls on every input change.
package dashboard

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"StockDashboard/internal/chart"
	"StockDashboard/internal/collector"
	"StockDashboard/internal/config"
	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

//go:embed web/index.html
var webFS embed.FS

// Server wires the collector, the chart builders and the render journal
// behind HTTP handlers.
type Server struct {
	collector *collector.Collector
	recorder  recorder.Recorder
	healthy   func() bool
	limits    model.ParamLimits
	defaults  model.RawParams
	compress  bool
	page      *template.Template
	router    *mux.Router
}

// NewServer builds the router. healthy reports the provider probe status and
// may be nil.
func NewServer(cfg *config.Config, col *collector.Collector, rec recorder.Recorder, healthy func() bool) (*Server, error) {
	limits, err := cfg.Limits()
	if err != nil {
		return nil, err
	}
	page, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if healthy == nil {
		healthy = func() bool { return true }
	}

	s := &Server{
		collector: col,
		recorder:  rec,
		healthy:   healthy,
		limits:    limits,
		defaults:  cfg.DefaultParams(),
		compress:  cfg.Server.Compress,
		page:      page,
		router:    mux.NewRouter(),
	}
	s.serveRoutes(s.router)
	return s, nil
}

// Handler returns the router wrapped in the access log and, when enabled,
// zstd compression.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.compress {
		h = ZstdMiddleware(h)
	}
	return AccessLog(h)
}

// render fetches a fresh series for p and turns it into the three figures.
// A chart whose data cannot be built is replaced by a placeholder; the
// others still render.
func (s *Server) render(ctx context.Context, p model.ChartParams) (Charts, Meta, *recorder.RenderEvent) {
	started := time.Now()
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	meta := Meta{
		RequestID: id,
		Provider:  s.collector.Name(),
		Symbol:    string(p.Symbol),
		Interval:  string(p.Interval),
		From:      p.Start.Format(model.DateLayout),
		To:        p.End.Format(model.DateLayout),
		Window:    p.Window,
	}
	evt := &recorder.RenderEvent{
		ID:        uuid.NewString(),
		RequestID: id,
		Provider:  meta.Provider,
		Symbol:    meta.Symbol,
		Interval:  meta.Interval,
		Status:    recorder.StatusOK,
	}

	series, err := s.collector.Collect(ctx, p)
	if err != nil {
		log.Warn().Err(err).Str("request_id", id).Str("symbol", meta.Symbol).Msg("market data unavailable")
		msg := fmt.Sprintf("Market data for %s is unavailable right now", p.Symbol)
		meta.Warnings = append(meta.Warnings, err.Error())
		evt.Status = recorder.StatusUnavailable
		evt.Error = err.Error()
		evt.Duration = time.Since(started)
		return Charts{
			Price:    chart.Placeholder(chart.PriceTitle(p.Symbol), msg),
			Average:  chart.Placeholder(chart.AverageTitle(p.Symbol), msg),
			Earnings: chart.Placeholder(chart.EarningsTitle(p.Symbol), msg),
		}, meta, evt
	}

	meta.Rows = series.Len()
	evt.Rows = series.Len()
	if n := series.Len(); n > 0 {
		meta.FirstTs = series.Bars[0].Time.Format(model.DateLayout)
		meta.LastTs = series.Bars[n-1].Time.Format(model.DateLayout)
	}

	var charts Charts
	charts.Price = chart.PriceFigure(chart.BuildPricePlot(series, p), series.Bars)

	if snap, err := chart.BuildAverageSnapshot(series); err != nil {
		charts.Average = chart.Placeholder(chart.AverageTitle(p.Symbol), "No prices to average")
		meta.Warnings = append(meta.Warnings, err.Error())
		evt.Status = recorder.StatusPartial
		evt.Error = err.Error()
	} else {
		charts.Average = chart.AverageFigure(p.Symbol, snap)
	}

	charts.Earnings = chart.EarningsFigure(p.Symbol, chart.BuildEarningsSeries(series), p.Scheme.Colors[0])

	evt.Duration = time.Since(started)
	return charts, meta, evt
}
