package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"StockDashboard/internal/model"

	"github.com/rs/zerolog/log"
)

// Options describes every selectable input and its starting value.
type Options struct {
	Symbols      []model.Option `json:"symbols"`
	PlotStyles   []model.Option `json:"plot_styles"`
	ColorSchemes []model.Option `json:"color_schemes"`
	Intervals    []model.Option `json:"intervals"`
	MinDate      string         `json:"min_date"`
	MaxDate      string         `json:"max_date"`
	MinWindow    int            `json:"min_window"`
	MaxWindow    int            `json:"max_window"`
	Defaults     Selection      `json:"defaults"`
}

// Selection is one set of raw page inputs.
type Selection struct {
	Symbol   string `json:"symbol"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Style    string `json:"style"`
	Scheme   string `json:"scheme"`
	Window   int    `json:"window"`
	Interval string `json:"interval"`
}

func (s *Server) options() Options {
	d := s.defaults
	return Options{
		Symbols:      model.Symbols,
		PlotStyles:   model.PlotStyles,
		ColorSchemes: model.ColorSchemes,
		Intervals:    model.Intervals,
		MinDate:      s.limits.MinDate.Format(model.DateLayout),
		MaxDate:      s.limits.MaxDate.Format(model.DateLayout),
		MinWindow:    model.MinWindow,
		MaxWindow:    model.MaxWindow,
		Defaults: Selection{
			Symbol:   d.Symbol,
			Start:    d.Start,
			End:      d.End,
			Style:    d.Style,
			Scheme:   d.Scheme,
			Window:   d.Window,
			Interval: d.Interval,
		},
	}
}

func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, s.options()); err != nil {
		log.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("render page")
	}
}

func (s *Server) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response[Options]{
		Data: s.options(),
		Meta: Meta{RequestID: RequestID(r.Context())},
	})
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.healthy() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"provider": s.collector.Name(),
	})
}

// GetCharts validates the page inputs, fetches fresh bars and returns the
// three figures. Missing inputs fall back to the configured defaults.
func (s *Server) GetCharts(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Context())
	raw, err := s.rawParams(r)
	if err != nil {
		badRequest(w, id, err)
		return
	}
	p, err := model.ParseChartParams(raw, s.limits)
	if err != nil {
		badRequest(w, id, err)
		return
	}

	charts, meta, evt := s.render(r.Context(), p)
	if err := s.recorder.RecordRender(evt); err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("record render")
	}
	writeJSON(w, http.StatusOK, Response[Charts]{Data: charts, Meta: meta})
}

func badRequest(w http.ResponseWriter, requestID string, err error) {
	resp := ErrorResponse{Error: err.Error(), RequestID: requestID}
	var pe *model.ParamError
	if errors.As(err, &pe) {
		resp.Field = pe.Field
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func (s *Server) rawParams(r *http.Request) (model.RawParams, error) {
	q := r.URL.Query()
	pick := func(key, fallback string) string {
		if v := q.Get(key); v != "" {
			return v
		}
		return fallback
	}

	raw := model.RawParams{
		Symbol:   pick("symbol", s.defaults.Symbol),
		Start:    pick("start", s.defaults.Start),
		End:      pick("end", s.defaults.End),
		Style:    pick("style", s.defaults.Style),
		Scheme:   pick("scheme", s.defaults.Scheme),
		Window:   s.defaults.Window,
		Interval: pick("interval", s.defaults.Interval),
	}
	if v := q.Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return raw, &model.ParamError{Field: "window", Reason: "must be an integer", Err: model.ErrInvalidWindow}
		}
		raw.Window = n
	}
	return raw, nil
}
